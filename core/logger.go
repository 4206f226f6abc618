package core

// Logger is implemented by every logging backend of the app.
// expected args: error, map[string]interface{}, teacher.Teacher (sets the reported person)
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
