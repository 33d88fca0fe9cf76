package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// StatusBreach is the status value of an event whose value crossed its threshold.
const StatusBreach = "BREACH"

// StatusNormal is the status value the backend uses for events within threshold.
const StatusNormal = "NORMAL"

// naiveLayouts are timestamp layouts without a zone. The backend stores UTC, so values in
// these layouts are read as UTC.
//
//nolint:gochecknoglobals // Read-only layout table.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is an instant decoded from either RFC 3339 or the backend's zone-less ISO form.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s as RFC 3339, falling back to the zone-less layouts as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts a timestamp string or null (which leaves the zero value).
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes RFC 3339 with nanoseconds, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// EventRecord is one monitoring event as served by GET /api/events.
type EventRecord struct {
	ID          int64     `json:"id"`
	SCID        int64     `json:"scid"`
	PayloadName string    `json:"payload_name,omitempty"`
	MetricType  string    `json:"metric_type" validate:"required"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	Status      string    `json:"status" validate:"required"`
	Timestamp   Timestamp `json:"timestamp" validate:"required"`
}

// eventWire mirrors EventRecord with the numeric fields as pointers so that absent and
// null values can be told apart from zero.
type eventWire struct {
	ID          int64     `json:"id"`
	SCID        *int64    `json:"scid"`
	PayloadName string    `json:"payload_name"`
	MetricType  string    `json:"metric_type"`
	Value       *float64  `json:"value"`
	Threshold   *float64  `json:"threshold"`
	Status      string    `json:"status"`
	Timestamp   Timestamp `json:"timestamp"`
}

// UnmarshalJSON rejects events whose scid, value or threshold is missing or null.
func (e *EventRecord) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := requireNumbers(map[string]bool{
		"scid":      w.SCID == nil,
		"value":     w.Value == nil,
		"threshold": w.Threshold == nil,
	}); err != nil {
		return fmt.Errorf("event %d: %w", w.ID, err)
	}
	*e = EventRecord{
		ID:          w.ID,
		SCID:        *w.SCID,
		PayloadName: w.PayloadName,
		MetricType:  w.MetricType,
		Value:       *w.Value,
		Threshold:   *w.Threshold,
		Status:      w.Status,
		Timestamp:   w.Timestamp,
	}
	return nil
}

// requireNumbers returns an error naming every field flagged as missing, in sorted order.
func requireNumbers(missing map[string]bool) error {
	var names []string
	for name, absent := range missing {
		if absent {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("missing or null numeric field(s): %s", strings.Join(names, ", "))
}

// Identifier returns the payload's display name, falling back to its numeric code.
func (e EventRecord) Identifier() string {
	if e.PayloadName != "" {
		return e.PayloadName
	}
	return strconv.FormatInt(e.SCID, 10)
}

// IsBreach reports whether the event is a threshold breach.
func (e EventRecord) IsBreach() bool {
	return e.Status == StatusBreach
}

// ResultPage is one page of events.
type ResultPage struct {
	Events     []EventRecord `json:"events" validate:"required,dive"`
	Page       int           `json:"page" validate:"gte=1"`
	TotalPages int           `json:"total_pages" validate:"gte=0"`
	TotalCount int           `json:"total_count,omitempty" validate:"gte=0"`
	PageSize   int           `json:"page_size,omitempty" validate:"gte=0"`
}

// BreachPoint is one entry of a payload metric's breach history.
type BreachPoint struct {
	Timestamp Timestamp `json:"timestamp" validate:"required"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Status    string    `json:"status"`
}

// UnmarshalJSON rejects points whose value or threshold is missing or null.
func (p *BreachPoint) UnmarshalJSON(data []byte) error {
	var w struct {
		Timestamp Timestamp `json:"timestamp"`
		Value     *float64  `json:"value"`
		Threshold *float64  `json:"threshold"`
		Status    string    `json:"status"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if err := requireNumbers(map[string]bool{
		"value":     w.Value == nil,
		"threshold": w.Threshold == nil,
	}); err != nil {
		return fmt.Errorf("breach point: %w", err)
	}
	*p = BreachPoint{Timestamp: w.Timestamp, Value: *w.Value, Threshold: *w.Threshold, Status: w.Status}
	return nil
}

// MonitorResult is the body of a successful POST /api/monitor.
type MonitorResult struct {
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// envelope is the wire wrapper around every /api response.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}
