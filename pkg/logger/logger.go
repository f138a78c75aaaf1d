package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ==================== 日志初始化 ====================

// Init 初始化全局 zap 日志
// mode: "prod" 输出 JSON；其余输出彩色控制台
// level: debug / info / warn / error
func Init(mode, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		lv = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lv)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	// 替换全局 logger，各包通过 zap.L() 派生
	zap.ReplaceGlobals(l)
	return l, nil
}

// Named 派生带包名的 logger
func Named(name string) *zap.Logger {
	return zap.L().Named(name)
}
