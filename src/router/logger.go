package router

// Logger is the minimal leveled-logging surface the router consults. Its
// method set matches gologme/log's *log.Logger exactly, so it satisfies
// this interface with no adapter.
type Logger interface {
	Debugln(v ...interface{})
	Debugf(format string, v ...interface{})
	Infoln(v ...interface{})
	Infof(format string, v ...interface{})
	Warnln(v ...interface{})
	Warnf(format string, v ...interface{})
	Errorln(v ...interface{})
	Errorf(format string, v ...interface{})
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}
