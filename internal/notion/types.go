package notion

// RichText is the subset of a Notion rich text object the relay writes.
type RichText struct {
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
}

func PlainText(s string) []RichText {
	var rt RichText
	rt.Text.Content = s
	return []RichText{rt}
}

type DateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Property is a page property value. Only the fields for title, date and number
// properties are modelled; a date property read back as null decodes to Date == nil.
type Property struct {
	Type   string     `json:"type,omitempty"`
	Title  []RichText `json:"title,omitempty"`
	Date   *DateValue `json:"date,omitempty"`
	Number *float64   `json:"number,omitempty"`
}

type Parent struct {
	DatabaseID string `json:"database_id"`
}

type CreatePageRequest struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
}

type UpdatePageRequest struct {
	Properties map[string]Property `json:"properties"`
}

type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"` // "created_time" or "last_edited_time"
	Direction string `json:"direction"`           // "ascending" or "descending"
}

type QueryRequest struct {
	Sorts    []Sort `json:"sorts,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

type QueryResponse struct {
	Results []Page `json:"results"`
	// HasMore is set when results were cut at the page size.
	HasMore bool `json:"has_more"`
}

// Response is the raw outcome of one API call.
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool { return r.Status == 200 }
