package usecase

// WarningMailDispatchFailed reports that a mail event could not be published.
const WarningMailDispatchFailed = "MAIL_DISPATCH_FAILED"

// Warning describes a side effect that failed while the operation itself succeeded.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
