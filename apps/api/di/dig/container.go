package dig_container

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/mergington/activities/apps/api/echo"
	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/core/teacher"
	emailsvc "github.com/mergington/activities/services/email"
	logsvc "github.com/mergington/activities/services/logger"
	"github.com/mergington/activities/storage/docrepos"
	"github.com/mergington/activities/storage/docstore"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

type ServerParams struct {
	dig.In
	Conf        *core.Config
	Logger      core.Logger
	Validate    *validator.Validate
	Translator  ut.Translator
	TeacherSvc  teacher.ServiceInterface
	ActivitySvc activity.ServiceInterface
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(loggerParam StoreLoggerParam) *docstore.Store {
	return docstore.New(loggerParam.Logger)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(p.Conf, &echoapi.Deps{
		Logger:      p.Logger,
		Validate:    p.Validate,
		Translator:  p.Translator,
		TeacherSvc:  p.TeacherSvc,
		ActivitySvc: p.ActivitySvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(docrepos.NewTeacherRepository))
	must(c.Provide(docrepos.NewActivityRepository))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(teacher.NewService, dig.As(new(teacher.ServiceInterface))))
	must(c.Provide(activity.NewService, dig.As(new(activity.ServiceInterface))))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
