package response

const (
	// MessageSuccess is the message for successful responses
	MessageSuccess = "Success"

	// DefaultErrorMessage hides internal error details from clients
	DefaultErrorMessage = "Something went wrong"

	// InternalServerErrorCode is the error code for unexpected failures
	InternalServerErrorCode = 500

	// DateFormat renders Date values
	DateFormat = "2006-01-02"

	// DateTimeFormat renders DateTime values
	DateTimeFormat = "2006-01-02 15:04:05"
)
