package statement

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

// cursor pins the last entry of a returned page. The next page starts
// strictly after it in (ts desc, id desc) order
type cursor struct {
	Ts int64  `json:"ts"`
	ID string `json:"id"`
}

func encodeCursor(c cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "Failed to marshal cursor")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeCursor(value string) (*cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to decode cursor")
	}
	c := cursor{}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal cursor")
	}
	if c.ID == "" {
		return nil, errors.New("Cursor id can not be empty")
	}
	return &c, nil
}
