package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"resume-analyzer-go/internal/analyzer"
	"resume-analyzer-go/internal/api/handler"
	"resume-analyzer-go/internal/api/router"
	"resume-analyzer-go/internal/config"
	applogger "resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/pkg/agent"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "config.yaml", "配置文件路径")
	pflag.Parse()

	// .env 仅用于本地开发注入 GROQ_API_KEY 等敏感配置
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		glog.Fatalf("加载配置失败: %v", err)
	}

	applogger.Init(applogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	glog.SetLogger(hertzadapter.From(applogger.Logger))
	glog.Info("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		glog.Fatalf("初始化存储失败: %v", err)
	}
	defer storageManager.Close()
	glog.Info("存储服务初始化成功")

	groqModel, err := agent.NewGroqChatModel(cfg.Groq.APIKey, cfg.Groq.Model, cfg.Groq.APIURL)
	if err != nil {
		glog.Fatalf("初始化Groq聊天模型失败: %v", err)
	}
	var chatModel analyzer.ChatModel = groqModel
	if cfg.Groq.RequestsPerMinute > 0 {
		chatModel = agent.NewThrottledChatModel(groqModel, cfg.Groq.RequestsPerMinute)
		glog.Infof("Groq调用限流已启用: %d req/min", cfg.Groq.RequestsPerMinute)
	}
	glog.Infof("Groq聊天模型初始化成功, model=%s", cfg.Groq.Model)

	var tikaOptions []parser.TikaOption
	if cfg.Tika.Timeout > 0 {
		tikaOptions = append(tikaOptions, parser.WithTikaTimeout(time.Duration(cfg.Tika.Timeout)*time.Second))
	}
	var tikaClient *parser.TikaClient
	if cfg.Tika.ServerURL != "" {
		tikaClient = parser.NewTikaClient(cfg.Tika.ServerURL, tikaOptions...)
		glog.Infof("Tika OCR客户端初始化成功: %s", cfg.Tika.ServerURL)
	} else {
		glog.Warn("未配置Tika服务器，扫描件PDF将无法提取文本")
	}
	textExtractor := parser.NewResumeTextExtractor(tikaClient)

	resumeAnalyzer := analyzer.NewAnalyzer(chatModel)
	analysisHandler := handler.NewAnalysisHandler(cfg, storageManager, textExtractor, resumeAnalyzer)
	glog.Info("AnalysisHandler初始化成功")

	workers := cfg.RabbitMQ.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}
	stopChannels := make([]chan<- struct{}, 0, workers)
	for i := 0; i < workers; i++ {
		stopCh, err := analysisHandler.StartAnalysisConsumer(ctx)
		if err != nil {
			glog.Fatalf("启动分析消费者失败: %v", err)
		}
		stopChannels = append(stopChannels, stopCh)
	}
	glog.Infof("分析消费者已启动，工作协程数: %d", workers)

	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithMaxRequestBodySize((cfg.Server.MaxUploadSizeMB+1)*1024*1024),
	)
	h.Use(func(c context.Context, ctx *app.RequestContext) {
		ctx.Next(c)
		glog.CtxInfof(c, "%s %s -> %d", string(ctx.Method()), string(ctx.Path()), ctx.Response.StatusCode())
	})

	router.RegisterRoutes(h, analysisHandler)
	glog.Info("HTTP路由注册成功")

	go func() {
		glog.Infof("HTTP服务器启动中，监听地址: %s", cfg.Server.Address)
		if err := h.Run(); err != nil {
			glog.Fatalf("启动HTTP服务器失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	glog.Info("接收到终止信号，正在优雅退出...")

	for _, stopCh := range stopChannels {
		close(stopCh)
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		glog.Errorf("服务器关闭失败: %v", err)
	}
	glog.Info("优雅退出完成")
}
