package client

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError - сбой обращения к Incident API: сеть недоступна,
// ответ не 2xx или тело ответа не разбирается.
type RequestError struct {
	Op         string
	StatusCode int
	// Message - текст ошибки, который вернул сервер, если он есть
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNotFound сообщает, что API ответил 404
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}
