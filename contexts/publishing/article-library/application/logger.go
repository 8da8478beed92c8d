package application

import "log/slog"

const ModuleName = "publishing/article-library"

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
