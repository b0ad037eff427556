package errs

import "errors"

// Translator converts errors of one kind into an *HTTPError.
//
// The boundary receives an ordered slice of translators at startup and uses
// the first one whose Match reports true, so more specific kinds go first.
type Translator struct {
	Name    string
	Match   func(err error) bool
	Convert func(err error) *HTTPError
}

// Translate runs err through translators in order. An error that no
// translator claims becomes a generic internal error carrying err as cause.
func Translate(err error, translators []Translator) *HTTPError {
	for _, t := range translators {
		if t.Match(err) {
			if converted := t.Convert(err); converted != nil {
				return converted
			}
		}
	}
	return NewInternalServerError().WithCause(err)
}

// PassThrough is the translator for errors that already are *HTTPError.
func PassThrough() Translator {
	return Translator{
		Name: "http_error",
		Match: func(err error) bool {
			var httpErr *HTTPError
			return errors.As(err, &httpErr)
		},
		Convert: func(err error) *HTTPError {
			var httpErr *HTTPError
			errors.As(err, &httpErr)
			return httpErr
		},
	}
}
