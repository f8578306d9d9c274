package handle

import (
	"context"
	"net/http"
	"time"

	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/mylogger"
)

type SystemHandler struct {
	db    driven.IDB
	mb    driven.IUserBroker
	mylog mylogger.Logger
}

// NewSystemHandler takes a nil broker when publishing is disabled.
func NewSystemHandler(db driven.IDB, mb driven.IUserBroker, mylog mylogger.Logger) *SystemHandler {
	return &SystemHandler{
		db:    db,
		mb:    mb,
		mylog: mylog,
	}
}

func (sh *SystemHandler) Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "Api is up and running."})
	}
}

func (sh *SystemHandler) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "database": "ok"}
		code := http.StatusOK

		if err := sh.db.IsAlive(ctx); err != nil {
			sh.mylog.Action("health").Warn("database is not responding", "reason", err.Error())
			status["status"], status["database"] = "unavailable", "down"
			code = http.StatusServiceUnavailable
		}

		if sh.mb != nil {
			// the broker is optional, a dead one only degrades the service
			status["broker"] = "ok"
			if !sh.mb.IsAlive() {
				status["broker"] = "down"
			}
		}

		jsonResponse(w, code, status)
	}
}
