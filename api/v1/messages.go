// Package v1 defines the dashboard RPC surface. Payloads travel as
// google.protobuf.Struct and map onto the JSON shapes below.
package v1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// SessionRequest addresses an existing session.
type SessionRequest struct {
	SessionID string `json:"session_id"`
}

// SetFilterRequest replaces one filter field. Scalar keys use the first
// value; sentiment uses them all. No values means ALL.
type SetFilterRequest struct {
	SessionID string   `json:"session_id"`
	Key       string   `json:"key"`
	Values    []string `json:"values"`
}

type ToggleSentimentRequest struct {
	SessionID string `json:"session_id"`
	Sentiment string `json:"sentiment"`
}

// Filters is the wire form of a full filter state. Empty fields mean ALL.
type Filters struct {
	Year       string   `json:"year,omitempty"`
	Division   string   `json:"division,omitempty"`
	Department string   `json:"department,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Sentiment  []string `json:"sentiment,omitempty"`
}

// InsightRequest selects records either through a session's current
// filters or through explicit ones.
type InsightRequest struct {
	SessionID string   `json:"session_id,omitempty"`
	Filters   *Filters `json:"filters,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// Encode converts a JSON-serializable value into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	if v == nil {
		return &structpb.Struct{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

// Decode fills v from a Struct payload.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
