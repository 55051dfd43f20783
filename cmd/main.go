package main

import (
	"log"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "quirk/api/v1"
	"quirk/config"
	"quirk/dao"
	myvalidator "quirk/internal/validator"
	"quirk/middleware"
	"quirk/model"
	"quirk/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// 自动迁移
	if err := db.AutoMigrate(&model.User{}, &model.Tweet{}, &model.Follow{}, &model.Like{}); err != nil {
		panic(err)
	}

	// 初始化 DAO 和 Service
	userDAO := dao.NewUserDAO(db)
	tweetDAO := dao.NewTweetDAO(db)
	followDAO := dao.NewFollowDAO(db)
	likeDAO := dao.NewLikeDAO(db)

	authService := service.NewAuthService(userDAO)
	tweetService := service.NewTweetService(tweetDAO, likeDAO, followDAO)
	userService := service.NewUserService(userDAO, followDAO)

	authAPI := v1.NewAuthAPI(authService)
	tweetAPI := v1.NewTweetAPI(tweetService)
	userAPI := v1.NewUserAPI(userService)
	oauthAPI := v1.NewOAuthAPI(authService, config.GlobalConfig.OAuth)

	// 初始化路由
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册自定义校验器，并让校验错误用 json 字段名报告 path
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("username", myvalidator.IsUsername); err != nil {
			panic(err)
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}

	protect := middleware.AuthMiddleware(userDAO)
	optionalAuth := middleware.OptionalAuthMiddleware(userDAO)

	api := r.Group("/api/v1")

	// 鉴权
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authAPI.Register)
		loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
		authGroup.POST("/login", loginLimiter, authAPI.Login)
		authGroup.POST("/logout", authAPI.Logout)
		authGroup.GET("/me", protect, authAPI.Me)
	}

	// OAuth
	oauthGroup := api.Group("/oauth")
	{
		oauthGroup.GET("/google", oauthAPI.Authorize("google"))
		oauthGroup.GET("/google/callback", oauthAPI.Callback("google"))
		oauthGroup.GET("/github", oauthAPI.Authorize("github"))
		oauthGroup.GET("/github/callback", oauthAPI.Callback("github"))
		oauthGroup.GET("/success", oauthAPI.Success)
	}

	// 推文与时间线
	tweetGroup := api.Group("/tweets")
	{
		tweetGroup.POST("", protect, tweetAPI.Create)
		tweetGroup.GET("", optionalAuth, tweetAPI.List)
		tweetGroup.GET("/timeline", protect, tweetAPI.Timeline)
		tweetGroup.GET("/user/:userId", optionalAuth, tweetAPI.UserTweets)
		tweetGroup.POST("/:id/like", protect, tweetAPI.Like)
		tweetGroup.DELETE("/:id/like", protect, tweetAPI.Unlike)
	}

	// 社交图
	userGroup := api.Group("/users")
	{
		// gin 同一段只允许一个通配符名，档案路由复用 :id 但按用户名解析
		userGroup.POST("/:id/follow", protect, userAPI.Follow)
		userGroup.DELETE("/:id/follow", protect, userAPI.Unfollow)
		userGroup.GET("/:id", protect, userAPI.Profile)
	}

	// 启动服务
	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
