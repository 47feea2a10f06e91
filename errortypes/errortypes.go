package errortypes

import "errors"

// As is errors.As, re-exported so callers matching on Coder don't need both imports.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// UnknownAdType should be used when an <Ad> element holds neither an <InLine> nor a <Wrapper> child.
//
// The ad is dropped from the document and parsing continues with the next one.
type UnknownAdType struct {
	Message string
}

func (err *UnknownAdType) Error() string {
	return err.Message
}

func (err *UnknownAdType) Code() int {
	return SchemaValidationErrorCode
}

func (err *UnknownAdType) Severity() Severity {
	return SeverityWarning
}

// MissingAdSystem should be used when an ad does not declare its <AdSystem>.
type MissingAdSystem struct {
	Message string
}

func (err *MissingAdSystem) Error() string {
	return err.Message
}

func (err *MissingAdSystem) Code() int {
	return SchemaValidationErrorCode
}

func (err *MissingAdSystem) Severity() Severity {
	return SeverityWarning
}

// MissingAdTagURI should be used when a wrapper ad has no usable <VASTAdTagURI>.
// A wrapper without a redirect can never be resolved, so it is never selected as a candidate.
type MissingAdTagURI struct {
	Message string
}

func (err *MissingAdTagURI) Error() string {
	return err.Message
}

func (err *MissingAdTagURI) Code() int {
	return SchemaValidationErrorCode
}

func (err *MissingAdTagURI) Severity() Severity {
	return SeverityWarning
}

// InvalidCreative should be used when a <Creative> is skipped, either because its kind is not
// recognised or because a required value such as <Duration> could not be parsed.
type InvalidCreative struct {
	Message string
}

func (err *InvalidCreative) Error() string {
	return err.Message
}

func (err *InvalidCreative) Code() int {
	return SchemaValidationErrorCode
}

func (err *InvalidCreative) Severity() Severity {
	return SeverityWarning
}

// UnsupportedVersion flags a VAST document whose version attribute could not be understood.
// The document is still processed.
type UnsupportedVersion struct {
	Message string
}

func (err *UnsupportedVersion) Error() string {
	return err.Message
}

func (err *UnsupportedVersion) Code() int {
	return UnsupportedVersionCode
}

func (err *UnsupportedVersion) Severity() Severity {
	return SeverityWarning
}

// Timeout should be used to flag that a wrapper redirect did not answer before the hop deadline expired.
type Timeout struct {
	Message string
	Cause   error
}

func (err *Timeout) Error() string {
	return err.Message
}

func (err *Timeout) Unwrap() error {
	return err.Cause
}

func (err *Timeout) Code() int {
	return WrapperTimeoutErrorCode
}

func (err *Timeout) Severity() Severity {
	return SeverityFatal
}

// NetworkFailure should be used when a wrapper redirect could not be fetched at all:
// an invalid URI, a connection error or a non-success HTTP status.
type NetworkFailure struct {
	Message string
	Cause   error
}

func (err *NetworkFailure) Error() string {
	return err.Message
}

func (err *NetworkFailure) Unwrap() error {
	return err.Cause
}

func (err *NetworkFailure) Code() int {
	return WrapperTimeoutErrorCode
}

func (err *NetworkFailure) Severity() Severity {
	return SeverityFatal
}

// MalformedResponse should be used when a wrapper redirect answered, but the body was not a VAST document.
//
// For example:
//
//   - The body was not well-formed XML.
//   - The root element was not <VAST>.
//   - The body exceeded the configured size limit.
type MalformedResponse struct {
	Message string
	Cause   error
}

func (err *MalformedResponse) Error() string {
	return err.Message
}

func (err *MalformedResponse) Unwrap() error {
	return err.Cause
}

func (err *MalformedResponse) Code() int {
	return XMLParseErrorCode
}

func (err *MalformedResponse) Severity() Severity {
	return SeverityFatal
}
