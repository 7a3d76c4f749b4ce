package errcode

// Error codes carried by asynchronous notifications:
// - 0: no error
// - 4xxx: the request itself was rejected
// - 5xxx: a system or upstream failure interrupted the job
const (
	OK               = 0
	ValidationFailed = 4000
	ResourceMissing  = 4004
	SystemError      = 5000
	ExportFailed     = 5002
	UpstreamFailed   = 5003
)
