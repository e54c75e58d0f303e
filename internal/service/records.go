package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/yourname/sleeprelay/internal"
	"github.com/yourname/sleeprelay/internal/notion"
)

// Property names of the sleep database.
const (
	PropTitle      = "Default Title Column"
	PropSleepTime  = "Sleep Time"
	PropDate       = "Date"
	PropWakeTime   = "Wake Time"
	PropHoursSlept = "Hours Slept"

	EntryTitle = "Sleep Entry"
)

// Layouts tried in order when reading a date property back. The offset-less ones
// parse as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.DateOnly,
}

func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// HoursSlept is (wake - sleep) in hours, rounded half to even at two decimals.
// It is negative when wake precedes sleep.
func HoursSlept(sleep, wake time.Time) float64 {
	return math.RoundToEven(wake.Sub(sleep).Hours()*100) / 100
}

func dateSet(p notion.Property, ok bool) bool {
	return ok && p.Date != nil && p.Date.Start != ""
}

func isOpen(page notion.Page) bool {
	sleep, ok := page.Properties[PropSleepTime]
	wake, wok := page.Properties[PropWakeTime]
	return dateSet(sleep, ok) && !dateSet(wake, wok)
}

// FirstOpen returns the first page, in the given order, that has a sleep time and
// no wake time.
func FirstOpen(pages []notion.Page) (notion.Page, bool) {
	for _, p := range pages {
		if isOpen(p) {
			return p, true
		}
	}
	return notion.Page{}, false
}

// RecordFromPage maps a database page to a SleepRecord.
func RecordFromPage(page notion.Page) (internal.SleepRecord, error) {
	rec := internal.SleepRecord{ID: page.ID}
	if p, ok := page.Properties[PropSleepTime]; dateSet(p, ok) {
		t, err := ParseTime(p.Date.Start)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", PropSleepTime, err)
		}
		rec.SleepTime = &t
	}
	if p, ok := page.Properties[PropDate]; dateSet(p, ok) {
		rec.Date = p.Date.Start
	}
	if p, ok := page.Properties[PropWakeTime]; dateSet(p, ok) {
		t, err := ParseTime(p.Date.Start)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", PropWakeTime, err)
		}
		rec.WakeTime = &t
	}
	if p, ok := page.Properties[PropHoursSlept]; ok {
		rec.HoursSlept = p.Number
	}
	return rec, nil
}

func sleepPage(databaseID string, now time.Time) notion.CreatePageRequest {
	return notion.CreatePageRequest{
		Parent: notion.Parent{DatabaseID: databaseID},
		Properties: map[string]notion.Property{
			PropTitle:     {Title: notion.PlainText(EntryTitle)},
			PropSleepTime: {Date: &notion.DateValue{Start: FormatTime(now)}},
			PropDate:      {Date: &notion.DateValue{Start: now.UTC().Format(time.DateOnly)}},
		},
	}
}

func wakeUpdate(now time.Time, hours float64) notion.UpdatePageRequest {
	return notion.UpdatePageRequest{
		Properties: map[string]notion.Property{
			PropWakeTime:   {Date: &notion.DateValue{Start: FormatTime(now)}},
			PropHoursSlept: {Number: &hours},
		},
	}
}

// pageID extracts "id" from a page object; empty if the body is not one.
func pageID(body []byte) string {
	var p struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &p)
	return p.ID
}
