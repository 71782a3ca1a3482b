package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Wire contract for failures: {status: "ERROR_<KIND>", info: <string>}.
// Success payloads carry status CREATED / EXISTS / OK instead.

func RespondError(ctx *gin.Context, status int, kind, info string) {
	ctx.JSON(status, gin.H{
		"status": "ERROR_" + kind,
		"info":   info,
	})
}

func RespondBadRequest(ctx *gin.Context, info string) {
	RespondError(ctx, http.StatusBadRequest, "BAD_REQUEST", info)
}

func RespondUnauthorized(ctx *gin.Context, info string) {
	RespondError(ctx, http.StatusUnauthorized, "UNAUTHORIZED", info)
}

func RespondNotFound(ctx *gin.Context, info string) {
	RespondError(ctx, http.StatusNotFound, "NOT_FOUND", info)
}

// RespondInternal never carries diagnostic detail; causes are logged
// server-side only.
func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "INTERNAL", "internal error")
}
