package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flexInt decodes a JSON number or a numeric string. Agents routinely send
// IDs as strings, so fields like orderId and productId accept both, matching
// the schemas that declare ["integer", "string"].
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("not a numeric string: %q", str)
		}
		*n = flexInt(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = flexInt(int(f))
	return nil
}

func (n flexInt) Int() int { return int(n) }
