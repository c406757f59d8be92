package logutil

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/ledgerxfr/shared/params"
	"github.com/sirupsen/logrus"
)

func addLogWriter(w io.Writer) {
	mw := io.MultiWriter(logrus.StandardLogger().Out, w)
	logrus.SetOutput(mw)
}

// ConfigurePersistentLogging adds a log-to-file writer. File content is identical to stdout.
func ConfigurePersistentLogging(logFileName string) error {
	logrus.WithField("logFileName", logFileName).Info("Logs will be made persistent")
	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, params.IoParams().ReadWritePermissions) // #nosec G304
	if err != nil {
		return err
	}

	addLogWriter(f)

	logrus.Info("File logging initialized")
	return nil
}

// SetVerbosity sets the global log level by name.
func SetVerbosity(verbosity string) error {
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return errors.Wrapf(err, "bad verbosity %q", verbosity)
	}

	logrus.SetLevel(level)
	return nil
}
