package model

import "errors"

// ErrSubmitInFlight 提交已在进行中，重复提交被拒绝
var ErrSubmitInFlight = errors.New("submission already in progress")
