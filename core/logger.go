package core

// Logger is any structured logger the app reports to.
// expected args: error | map[string]interface{} | the authenticated professor
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
