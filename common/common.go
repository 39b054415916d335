package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
)

// AttachFileLogger attaches, if required, a log file
func AttachFileLogger(
	log logger.Logger,
	defaultLogsPath string,
	logFilePrefix string,
	saveLogFile bool,
	workingDir string) (FileLoggingHandler, error) {
	var err error
	var logFile FileLoggingHandler
	if saveLogFile {
		argsFileLogging := file.ArgsFileLogging{
			WorkingDir:      workingDir,
			DefaultLogsPath: defaultLogsPath,
			LogFilePrefix:   logFilePrefix,
		}
		logFile, err = file.NewFileLogging(argsFileLogging)
		if err != nil {
			return nil, fmt.Errorf("%w creating a log file", err)
		}
	}

	err = logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)

	return logFile, nil
}

// LoadEnvFile loads the provided .env file into the process environment if it exists.
// A missing file is not an error: all variables have defaults.
func LoadEnvFile(envFile string) error {
	err := godotenv.Load(envFile)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// IntFromEnv reads an integer environment variable, falling back to the provided default
// when the variable is unset or unparsable, then clamping the result to [minValue, maxValue]
func IntFromEnv(name string, defaultValue int, minValue int, maxValue int) int {
	value := defaultValue
	raw := os.Getenv(name)
	if len(raw) > 0 {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			value = parsed
		}
	}

	if value < minValue {
		value = minValue
	}
	if value > maxValue {
		value = maxValue
	}

	return value
}

// StringFromEnv reads a string environment variable, falling back to the provided default
func StringFromEnv(name string, defaultValue string) string {
	value := os.Getenv(name)
	if len(value) == 0 {
		return defaultValue
	}

	return value
}

// CronJobStarter is able to start a go routine that periodically calls the provided handler. The time between calls is
// provided as timeToCall
func CronJobStarter(ctx context.Context, handler func(ctx context.Context), timeToCall time.Duration) {
	go func() {
		timer := time.NewTimer(timeToCall)
		defer timer.Stop()

		handler(ctx)

		for {
			select {
			case <-timer.C:
				handler(ctx)
				timer.Reset(timeToCall)
			case <-ctx.Done():
				return
			}
		}
	}()
}
