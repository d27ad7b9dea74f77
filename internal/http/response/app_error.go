package response

import "fmt"

// AppError 统一错误包装，Code 与响应包体里的 status_code 一致
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误；code 非法时归一到内部错误码
func WrapError(code int, message string, err error) *AppError {
	if code <= 0 {
		code = CodeInternal
	}
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
