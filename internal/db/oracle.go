package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	go_ora "github.com/sijms/go-ora/v2"

	"store-backend/internal/apperrors"
	"store-backend/internal/config"
)

// OpenERP prepares the ERP pool through go-ora without dialing it. Queries
// fail with a transient error until the database is reachable.
func OpenERP(cfg config.ERPConfig) (*sql.DB, error) {
	dsn := go_ora.BuildUrl(cfg.Host, cfg.Port, cfg.Service, cfg.User, cfg.Password, nil)

	erp, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("erp open: %w", err)
	}
	if cfg.MaxConns > 0 {
		erp.SetMaxOpenConns(cfg.MaxConns)
		erp.SetMaxIdleConns(cfg.MaxConns)
	}
	erp.SetConnMaxIdleTime(5 * time.Minute)
	return erp, nil
}

// ConnectERP opens the ERP pool and pings it.
func ConnectERP(ctx context.Context, cfg config.ERPConfig) (*sql.DB, error) {
	erp, err := OpenERP(cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := erp.PingContext(pingCtx); err != nil {
		erp.Close()
		return nil, fmt.Errorf("erp ping: %w", err)
	}
	return erp, nil
}

// ClassifyERP maps connection loss and timeouts on the ERP database to
// apperrors.Transient.
func ClassifyERP(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return apperrors.Transient(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.Transient(err)
	}
	return err
}
