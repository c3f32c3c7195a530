package router

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-analyzer-go/internal/api/handler"
	"resume-analyzer-go/internal/storage"
)

const defaultUserID = "anonymous"

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, analysisHandler *handler.AnalysisHandler) {
	api := h.Group("/api/v1")

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		userID := resolveUserID(ctx)

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		fileBytes, err := io.ReadAll(file)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
			return
		}

		if err := analysisHandler.ValidateUpload(fileHeader.Filename, fileHeader.Size); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}

		resp, err := analysisHandler.HandleResumeUpload(c, fileBytes, fileHeader.Filename, userID)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/analysis/:id", func(c context.Context, ctx *app.RequestContext) {
		analysisID := ctx.Param("id")
		if analysisID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "缺少分析ID"})
			return
		}

		resp, err := analysisHandler.GetAnalysis(c, analysisID)
		if err != nil {
			if errors.Is(err, storage.ErrAnalysisNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "分析记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/analyses", func(c context.Context, ctx *app.RequestContext) {
		userID := resolveUserID(ctx)
		page := parseIntQuery(ctx, "page", 1)
		pageSize := parseIntQuery(ctx, "page_size", 10)

		resp, err := analysisHandler.ListAnalyses(c, userID, page, pageSize)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/dashboard", func(c context.Context, ctx *app.RequestContext) {
		userID := resolveUserID(ctx)

		stats, err := analysisHandler.GetDashboard(c, userID)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, stats)
	})

	// 健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}

// resolveUserID 依次从表单、查询参数、请求头取用户标识，缺省为匿名
func resolveUserID(ctx *app.RequestContext) string {
	if userID := ctx.PostForm("user_id"); userID != "" {
		return userID
	}
	if userID := ctx.Query("user_id"); userID != "" {
		return userID
	}
	if userID := string(ctx.GetHeader("X-User-ID")); userID != "" {
		return userID
	}
	return defaultUserID
}

func parseIntQuery(ctx *app.RequestContext, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
