package web

import (
	zlog "github.com/roljohntorralba/imgopt/log"
)

func logger() zlog.Logger {
	return zlog.Get()
}
