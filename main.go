package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/captionclip/config"
	"github.com/ByLCY/captionclip/logging"
	"github.com/ByLCY/captionclip/pipeline"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "YAML 配置文件路径（不存在时使用默认配置）")
	seed := flag.Int64("seed", 0, "随机种子，非 0 时结果可复现")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	quote := flag.String("quote", "", "直接指定字幕，跳过随机选择")
	imagePath := flag.String("image", "", "直接指定图片，跳过随机选择")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *debug != "" {
		cfg.DebugLayout = *debug
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	res, err := run(cfg, logger, *imagePath, *quote)
	if errors.Is(err, pipeline.ErrNoImages) {
		fmt.Println(err)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("生成视频失败: %v", err)
	}
	fmt.Printf("已生成视频：%s（图片 %s）\n", res.Output, filepath.Base(res.Image))
}

// run 执行流水线，image 与 quote 为空时随机选择。
func run(cfg *config.Config, logger *zap.Logger, image, quote string) (*pipeline.Result, error) {
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	p.Image = image
	p.Quote = quote
	return p.Run()
}
