// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RootMessage is the liveness text served on /.
const RootMessage = "Life's Lessons Server Is Running..."

// Root は / へのGETにプレーンテキストの稼働メッセージを返します。
func Root(c *gin.Context) {
	c.String(http.StatusOK, RootMessage)
}

// Health はGET/HEAD /healthz を処理します。レスポンスはキャッシュさせません。
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodHead {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
