package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug            bool
	TestMode         bool
	AppName          string
	Env              string
	Build            string
	WorkDir          string
	SecretKey        string
	RollbarToken     string
	SendgridApiKey   string
	DefaultFromEmail mail.Address
	FrontendBaseURL  string
	SeedFile         string
	Server           struct {
		Host                      string
		DebugHost                 string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
		DisableReqLogs            bool
	}
}

// NewConfig reads the configuration from the environment.
// Variables are prefixed with the value of ENV (DEV by default), e.g. DEV_SECRETKEY or PROD_SERVER_HOST.
// A config/.env.<env> file in the working directory is loaded first when it exists.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Mergington High School")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "s3h!u5-vr)d0q$+86=lk&mergington(x)#*c2(#yg4h^$aw")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("defaultFromEmail", "noreply@mergington.edu")
	v.SetDefault("frontendBaseURL", "http://localhost:8000")
	v.SetDefault("seedFile", "")
	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		AppName:         v.GetString("appName"),
		Env:             env,
		Build:           v.GetString("build"),
		WorkDir:         wd,
		SecretKey:       v.GetString("secretKey"),
		RollbarToken:    v.GetString("rollbarToken"),
		SendgridApiKey:  v.GetString("sendgridApiKey"),
		FrontendBaseURL: v.GetString("frontendBaseURL"),
		SeedFile:        v.GetString("seedFile"),
	}
	conf.DefaultFromEmail = mail.Address{Name: conf.AppName, Address: v.GetString("defaultFromEmail")}
	conf.Server.Host = v.GetString("server.host")
	conf.Server.DebugHost = v.GetString("server.debugHost")
	conf.Server.JWTExpirationDelta = v.GetDuration("server.jwtExpirationDelta")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("server.jwtRefreshExpirationDelta")
	conf.Server.ShutdownTimeout = v.GetDuration("server.shutdownTimeout")
	conf.Server.DisableReqLogs = v.GetBool("server.disableReqLogs")
	return conf
}

// NewTestConfig returns the configuration used by tests: no request logs, no outgoing mails.
func NewTestConfig() *Config {
	conf := &Config{
		Debug:           false,
		TestMode:        true,
		AppName:         "Mergington High School",
		Env:             "TEST",
		Build:           "test",
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://localhost:8000",
	}
	conf.DefaultFromEmail = mail.Address{Name: conf.AppName, Address: "noreply@mergington.edu"}
	conf.Server.Host = ":0"
	conf.Server.JWTExpirationDelta = time.Hour
	conf.Server.JWTRefreshExpirationDelta = 24 * time.Hour
	conf.Server.ShutdownTimeout = time.Second
	conf.Server.DisableReqLogs = true
	return conf
}
