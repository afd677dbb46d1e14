package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// 0と未指定を区別する整数（JSONでもformでも受ける）
// "5" のような数値文字列も受け付ける
type optionalInt struct {
	Value int64
	Set   bool
}

func (o *optionalInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*o = optionalInt{}
		return nil
	}
	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	return o.UnmarshalParam(s)
}

// echo.BindUnmarshaler
func (o *optionalInt) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*o = optionalInt{}
		return nil
	}
	v, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return err
	}
	*o = optionalInt{Value: v, Set: true}
	return nil
}

func (o optionalInt) Ptr() *int64 {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
