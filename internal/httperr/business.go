package httperr

import "errors"

// BusinessError is a rule violation identified by a machine code. It maps to a
// 4xx response, never a 500.
type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	got, ok := BusinessCode(err)
	return ok && got == code
}

// BusinessCode extracts the code of a BusinessError anywhere in err's chain.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
