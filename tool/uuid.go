package tool

import "github.com/google/uuid"

// GetUUID returns a random (v4) UUID string.
func GetUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
