package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const pingTimeout = 800 * time.Millisecond

type check struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

type healthResp struct {
	Status    check            `json:"status"`
	UptimeSec int              `json:"uptime_sec"`
	Checks    map[string]check `json:"checks"`
	Time      string           `json:"time"`
}

type HealthCtrl struct {
	db      *gorm.DB
	started time.Time
}

func NewHealthCtrl(db *gorm.DB) *HealthCtrl { return &HealthCtrl{db: db, started: time.Now()} }

// Health answers 503 when the database does not answer a ping in time.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), pingTimeout)
	defer cancel()

	db := h.ping(ctx)
	status := http.StatusOK
	if !db.OK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, healthResp{
		Status:    check{OK: db.OK},
		UptimeSec: int(time.Since(h.started).Seconds()),
		Checks:    map[string]check{"database": db},
		Time:      time.Now().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) ping(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "gorm db is nil"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}
