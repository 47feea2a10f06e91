package errortypes

// Defines the VAST error codes reported through the [ERRORCODE] macro.
// Values follow the IAB VAST error code table.
const (
	XMLParseErrorCode          = 100
	SchemaValidationErrorCode  = 101
	UnsupportedVersionCode     = 102
	WrapperErrorCode           = 300
	WrapperTimeoutErrorCode    = 301
	WrapperLimitErrorCode      = 302
	NoAdsAfterWrapperErrorCode = 303
	UnknownErrorCode           = 900
)

// Coder provides an error or warning code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error or warning code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	var e Coder
	if As(err, &e) {
		return e.Code()
	}
	return UnknownErrorCode
}
