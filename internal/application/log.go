package application

import "github.com/sirupsen/logrus"

func orStd(l *logrus.Logger) *logrus.Logger {
	if l == nil {
		return logrus.StandardLogger()
	}
	return l
}
