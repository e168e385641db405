package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// #region wire
// Messages travel as google.protobuf.Struct. Go values cross via their JSON
// form so the field names match the json tags used everywhere else.

const sentenceField = "sentence"

func sentenceRequest(sentence string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		sentenceField: structpb.NewStringValue(sentence),
	}}
}

func sentenceOf(req *structpb.Struct) (string, error) {
	v, ok := req.GetFields()[sentenceField]
	if !ok {
		return "", fmt.Errorf("request missing %q", sentenceField)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%q must be a string", sentenceField)
	}
	return s.StringValue, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("to map: %w", err)
	}
	return structpb.NewStruct(m)
}

func fromStruct(s *structpb.Struct, v any) error {
	raw, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	return nil
}
// #endregion wire
