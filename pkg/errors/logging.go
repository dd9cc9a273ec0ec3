package errors

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogError는 에러를 구조화된 로그로 기록합니다.
// 클라이언트 측 에러 코드는 Warn, 그 외는 Error 레벨로 남깁니다
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	allFields := make([]zap.Field, 0, len(fields)+2)
	allFields = append(allFields, zap.Error(err))

	level := zapcore.ErrorLevel
	var appErr *AppError
	if As(err, &appErr) {
		allFields = append(allFields, zap.String("error_code", appErr.Code()))
		if ToHTTPStatus(appErr.Code()) < 500 {
			level = zapcore.WarnLevel
		}
	}

	allFields = append(allFields, fields...)

	if ce := logger.Check(level, msg); ce != nil {
		ce.Write(allFields...)
	}
}
