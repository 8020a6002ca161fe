package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// OfficerList is the ordered list of officer references (user IDs or display
// names) a task is assigned to. It encodes as a JSON array and also decodes the
// legacy comma-separated string form.
type OfficerList []string

// ParseOfficerList splits a comma-separated officer string, trimming tokens and
// dropping empty ones.
func ParseOfficerList(s string) OfficerList {
	parts := strings.Split(s, ",")
	list := make(OfficerList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

// Append returns the list with officer added at the end.
func (l OfficerList) Append(officer string) OfficerList {
	officer = strings.TrimSpace(officer)
	if officer == "" {
		return l
	}
	out := make(OfficerList, len(l), len(l)+1)
	copy(out, l)
	return append(out, officer)
}

// String joins the list for display.
func (l OfficerList) String() string {
	return strings.Join(l, ", ")
}

func (l OfficerList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *OfficerList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = OfficerList{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = ParseOfficerList(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	list := make(OfficerList, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	*l = list
	return nil
}
