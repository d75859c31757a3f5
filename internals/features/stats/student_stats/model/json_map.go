// file: internals/features/stats/student_stats/model/json_map.go
package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

/* =============================================================================
   Boundary konversi tunggal untuk field map JSONB.
   Sumber data lama menyimpan map kadang sebagai key-value, kadang record
   polos; semua representasi dinormalisasi lewat dua fungsi ini saja —
   business logic tidak pernah menyentuh raw JSON.
============================================================================= */

func DecodeJSONMap[T any](raw datatypes.JSON) (map[string]T, error) {
	out := make(map[string]T)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EncodeJSONMap[T any](m map[string]T) (datatypes.JSON, error) {
	if m == nil {
		m = make(map[string]T)
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
