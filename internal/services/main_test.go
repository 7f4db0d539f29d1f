package services

import (
	"os"
	"testing"

	"github.com/Dias221467/Hydration_Tracker/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}
