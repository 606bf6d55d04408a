// PaiBan 排班引擎服务
// 主程序入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/paiban/paiban/internal/config"
	"github.com/paiban/paiban/internal/constraints"
	"github.com/paiban/paiban/internal/handler"
	"github.com/paiban/paiban/internal/metrics"
	"github.com/paiban/paiban/internal/middleware"
	"github.com/paiban/paiban/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 初始化日志
	logger.Init(logger.Config{
		Level:  os.Getenv("APP_LOG_LEVEL"),
		Format: "console",
	})

	// 打印版本信息
	fmt.Printf("PaiBan 排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 加载配置（环境变量），驱动引擎线程数/种子等调优参数
	appCfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	// 获取端口配置
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "7012"
	}

	// 创建处理器（无数据库依赖的简单场景；排班请求自带员工/班次/需求数据）
	scheduleHandler := handler.NewScheduleHandlerWithoutDB().WithEngineConfig(appCfg.Scheduler)

	// 创建 HTTP 服务器
	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"paiban"}`))
	})

	// 版本信息端点
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "PaiBan 排班引擎 API v1",
			"endpoints": {
				"schedule": {
					"generate": "POST /api/v1/schedule/generate",
					"validate": "POST /api/v1/schedule/validate"
				},
				"constraints": {
					"templates": "GET /api/v1/constraints/templates"
				},
				"stats": {
					"fairness": "POST /api/v1/stats/fairness",
					"coverage": "POST /api/v1/stats/coverage",
					"workload": "POST /api/v1/stats/workload"
				},
				"dispatch": {
					"single": "POST /api/v1/dispatch/single",
					"batch": "POST /api/v1/dispatch/batch",
					"route": "POST /api/v1/dispatch/route"
				},
				"swap": {
					"evaluate": "POST /api/v1/swap/evaluate",
					"recommend": "POST /api/v1/swap/recommend"
				}
			}
		}`))
	})

	// 排班生成 API
	mux.HandleFunc("/api/v1/schedule/generate", scheduleHandler.Generate)

	// 排班验证 API
	mux.HandleFunc("/api/v1/schedule/validate", scheduleHandler.Validate)

	// 约束模板 API
	mux.HandleFunc("/api/v1/constraints/templates", handleConstraintTemplates)

	// 约束库 API - 返回后端支持的所有约束及参数定义
	mux.HandleFunc("/api/v1/constraints/library", handleConstraintLibrary)

	// ========================================
	// 统计分析 API
	// ========================================

	// 公平性分析 API
	mux.HandleFunc("/api/v1/stats/fairness", handler.GetFairnessHandler)

	// 覆盖率分析 API
	mux.HandleFunc("/api/v1/stats/coverage", handler.GetCoverageHandler)

	// 工作量统计 API
	mux.HandleFunc("/api/v1/stats/workload", handler.GetWorkloadHandler)

	// ========================================
	// 派出服务 API
	// ========================================

	// 智能派单 API
	mux.HandleFunc("/api/v1/dispatch/single", handler.DispatchHandler)

	// 批量派单 API
	mux.HandleFunc("/api/v1/dispatch/batch", handler.BatchDispatchHandler)

	// 最优路线 API
	mux.HandleFunc("/api/v1/dispatch/route", handler.OptimalRouteHandler)

	// ========================================
	// 换班 API
	// ========================================

	// 换班可行性评估 API
	mux.HandleFunc("/api/v1/swap/evaluate", handler.SwapEvaluateHandler)

	// 换班目标推荐 API
	mux.HandleFunc("/api/v1/swap/recommend", handler.SwapRecommendHandler)

	// ========================================
	// 监控端点
	// ========================================

	// Prometheus 指标端点
	mux.Handle("/metrics", metrics.Handler())

	// ========================================
	// 中间件
	// ========================================

	// 创建带中间件的处理器
	// 中间件执行顺序：recovery -> securityHeaders -> requestID -> rateLimit -> cors -> logging -> handler
	handler := middleware.RecoveryMiddleware(middleware.SecurityHeadersMiddleware(
		requestIDMiddleware(rateLimitMiddleware(corsMiddleware(loggingMiddleware(mux))))))

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Str("port", port).
			Str("version", Version).
			Str("url", fmt.Sprintf("http://localhost:%s", port)).
			Str("api_docs", fmt.Sprintf("http://localhost:%s/api/v1/", port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// requestIDMiddleware 请求ID追踪中间件
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 尝试从请求头获取 Request ID，没有则生成新的
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// 设置响应头
		w.Header().Set("X-Request-ID", requestID)

		// 将 Request ID 存储到 context 中
		ctx := context.WithValue(r.Context(), "request_id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware 日志中间件
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		
		// 获取 Request ID
		requestID, _ := r.Context().Value("request_id").(string)
		
		// 包装ResponseWriter以捕获状态码
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		
		duration := time.Since(start)
		
		logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", duration).
			Msg("请求处理")
		
		// 记录Prometheus指标
		metrics.RecordRequestMetrics(r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

// responseWriter 包装ResponseWriter以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RateLimiter 简单的令牌桶限流器
type RateLimiter struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // 每秒添加的令牌数
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter 创建限流器
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     requestsPerSecond,
		maxTokens:  requestsPerSecond * 2, // 允许突发流量
		refillRate: requestsPerSecond,
		lastRefill: time.Now(),
	}
}

// Allow 检查是否允许请求
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

var globalRateLimiter = NewRateLimiter(100) // 默认 100 QPS

// rateLimitMiddleware 限流中间件
func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !globalRateLimiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":   true,
				"code":    "RATE_LIMITED",
				"message": "请求过于频繁，请稍后重试",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware CORS中间件
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ConstraintRule 约束规则
type ConstraintRule struct {
	Name        string `json:"name"`
	Type        string `json:"type"`        // hard/soft
	Category    string `json:"category"`    // 约束类别
	Description string `json:"description"` // 约束描述
	Default     string `json:"default"`     // 默认值
}

// ConstraintTemplate 约束模板
type ConstraintTemplate struct {
	Scenario    string           `json:"scenario"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Constraints []ConstraintRule `json:"constraints"` // 约束规则列表
}

// ConstraintTemplatesResponse 约束模板响应
type ConstraintTemplatesResponse struct {
	Templates []ConstraintTemplate `json:"templates"`
}

// handleConstraintTemplates 处理约束模板请求
func handleConstraintTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// 通用硬约束
	commonHardConstraints := []ConstraintRule{
		{Name: "max_hours_per_day", Type: "hard", Category: "工时限制", Description: "每日最大工时", Default: "10小时"},
		{Name: "max_hours_per_week", Type: "hard", Category: "工时限制", Description: "每周最大工时", Default: "44小时"},
		{Name: "min_rest_between_shifts", Type: "hard", Category: "休息保障", Description: "班次间最小休息时间", Default: "11小时"},
		{Name: "max_consecutive_days", Type: "hard", Category: "休息保障", Description: "最大连续工作天数", Default: "6天"},
		{Name: "skill_required", Type: "hard", Category: "资质要求", Description: "技能与岗位匹配", Default: "必须满足"},
	}

	// 通用软约束
	commonSoftConstraints := []ConstraintRule{
		{Name: "workload_balance", Type: "soft", Category: "公平性", Description: "工作量均衡", Default: "权重60"},
		{Name: "employee_preference", Type: "soft", Category: "偏好", Description: "员工偏好考虑", Default: "权重50"},
		{Name: "minimize_overtime", Type: "soft", Category: "成本优化", Description: "减少加班", Default: "权重70"},
	}

	templates := []ConstraintTemplate{
		{
			Scenario:    "restaurant",
			Name:        "餐饮门店标准模板",
			Description: "适用于餐饮门店的标准约束配置，包含高峰期人员配置、工时限制等",
			Constraints: append(append(commonHardConstraints,
				ConstraintRule{Name: "industry_certification", Type: "hard", Category: "资质要求", Description: "健康证等行业资质", Default: "必须持有"},
				ConstraintRule{Name: "peak_hours_coverage", Type: "soft", Category: "服务保障", Description: "高峰期人员覆盖", Default: "11:00-13:00, 17:00-20:00 最少3人"},
				ConstraintRule{Name: "split_shift", Type: "soft", Category: "排班模式", Description: "两头班支持", Default: "每周最多2次"},
			), commonSoftConstraints...),
		},
		{
			Scenario:    "factory",
			Name:        "工厂三班倒模板",
			Description: "适用于工厂三班倒的约束配置，包含倒班规则、产线覆盖等",
			Constraints: append(append(commonHardConstraints,
				ConstraintRule{Name: "shift_rotation", Type: "hard", Category: "排班模式", Description: "倒班轮换规则", Default: "早-中-晚轮换"},
				ConstraintRule{Name: "production_line_coverage", Type: "hard", Category: "服务保障", Description: "产线24小时覆盖", Default: "必须满足"},
				ConstraintRule{Name: "handover_overlap", Type: "soft", Category: "交接", Description: "交接班重叠时间", Default: "15分钟"},
			), commonSoftConstraints...),
		},
		{
			Scenario:    "housekeeping",
			Name:        "家政服务模板",
			Description: "适用于家政服务的约束配置，包含服务区域、路程时间等",
			Constraints: append(append(commonHardConstraints,
				ConstraintRule{Name: "service_area", Type: "hard", Category: "区域限制", Description: "服务区域匹配", Default: "必须在服务范围内"},
				ConstraintRule{Name: "travel_time", Type: "soft", Category: "效率优化", Description: "路程时间考虑", Default: "尽量减少"},
				ConstraintRule{Name: "time_window", Type: "hard", Category: "服务保障", Description: "服务时间窗口", Default: "必须在客户指定时段"},
			), commonSoftConstraints...),
		},
		{
			Scenario:    "nursing",
			Name:        "长护险服务模板",
			Description: "适用于长期护理保险服务的约束配置，包含护理计划、资质等级等",
			Constraints: append(append(commonHardConstraints,
				ConstraintRule{Name: "nursing_qualification", Type: "hard", Category: "资质要求", Description: "护理资质等级", Default: "必须持有护理证"},
				ConstraintRule{Name: "service_continuity", Type: "soft", Category: "服务质量", Description: "服务连续性", Default: "优先安排熟悉的护理员"},
				ConstraintRule{Name: "max_patients_per_day", Type: "hard", Category: "服务质量", Description: "每日最大服务患者数", Default: "4人"},
			), commonSoftConstraints...),
		},
	}

	response := ConstraintTemplatesResponse{Templates: templates}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleConstraintLibrary 处理约束库请求 - 返回后端支持的所有约束定义
func handleConstraintLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	response := constraints.LibraryResponse{Library: constraints.GetLibrary()}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

