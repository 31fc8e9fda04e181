package models

import (
	"errors"
	"fmt"
)

// DataError marks malformed input data (bad candle, misaligned signal
// sequence, non-monotonic timestamps). It is fatal for the current run:
// continuing would silently corrupt accounting.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "data error: " + e.Reason
}

func NewDataError(format string, args ...interface{}) *DataError {
	return &DataError{Reason: fmt.Sprintf(format, args...)}
}

// IsDataError reports whether err is (or wraps) a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
