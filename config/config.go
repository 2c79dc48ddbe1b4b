package config

import (
    "os"

    "github.com/sirupsen/logrus"
)

// Logger is the shared application logger. Packages that need their own
// logger take it via SetLogger-style hooks instead of importing this one.
var Logger = newLogger()

func newLogger() *logrus.Logger {
    log := logrus.New()
    log.SetOutput(os.Stdout)
    log.SetFormatter(&logrus.TextFormatter{
        FullTimestamp: true,
    })

    level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
    if err != nil {
        level = logrus.InfoLevel
    }
    log.SetLevel(level)
    return log
}

// GetEnv returns the value of an environment variable or a fallback.
func GetEnv(key, fallback string) string {
    if value := os.Getenv(key); value != "" {
        return value
    }
    return fallback
}
