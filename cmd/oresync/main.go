package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"oresync/internal/config"
	"oresync/internal/importer"
	"oresync/internal/server"
	"oresync/internal/store"
	"oresync/internal/util"
)

var (
	timesheetPath = flag.String("timesheet", "", "周报文件路径 (批处理模式)")
	mappingPath   = flag.String("mapping", "", "映射表文件路径 (批处理模式)")
	ledgerPath    = flag.String("ledger", "", "台账文件路径, 就地更新 (批处理模式)")
	port          = flag.Int("port", 0, "服务端口 (config.toml 优先; 仅当未显式配置 port 时生效)")
	devMode       = flag.Bool("dev", false, "开发模式")
	dataDir       = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败, 使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	// 三个路径齐全则进入批处理模式, 否则启动本地服务
	batchArgs := []string{*timesheetPath, *mappingPath, *ledgerPath}
	given := 0
	for _, p := range batchArgs {
		if p != "" {
			given++
		}
	}
	switch given {
	case 3:
		runBatch(cfg)
	case 0:
		runServer(cfg)
	default:
		fmt.Fprintln(os.Stderr, "批处理模式需要同时指定 -timesheet -mapping -ledger")
		os.Exit(2)
	}
}

// runBatch 批处理: 执行一次同步后退出
func runBatch(cfg *config.AppConfig) {
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败, 本次运行不记历史: %v", err)
	}

	var st *store.Store
	if dataDir != "" {
		st, err = store.New(filepath.Join(dataDir, "oresync.db"))
		if err != nil {
			log.Printf("打开运行历史库失败, 本次运行不记历史: %v", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	coordinator := importer.NewCoordinator(st, cfg)
	report, err := coordinator.RunSync(importer.Options{
		TimesheetPath: *timesheetPath,
		MappingPath:   *mappingPath,
		LedgerPath:    *ledgerPath,
	})

	if err != nil {
		if errors.Is(err, importer.ErrNoRecords) {
			// 非失败终态: 没有可同步的数据, 台账未改动
			fmt.Printf("没有任何有效的按日记录, 台账未改动 (读取 %d 行, 跳过 %d 行)\n",
				report.RowsRead, report.RowsSkipped)
			return
		}
		log.Fatalf("同步失败: %v", err)
	}

	fmt.Printf("同步完成: %d 个 sheet, 读取 %d 行, 跳过 %d 行\n",
		report.TotalSheets, report.RowsRead, report.RowsSkipped)
	fmt.Printf("按日记录 %d 条, 命中 %d 个分区, 覆盖 %d 行, 丢弃 %d 条无对应行的记录\n",
		report.Records, report.MatchedSheets, report.UpdatedSlots, report.UnmatchedRecords)
	for _, n := range report.Skips {
		fmt.Printf("  跳过 %s!%d: %s\n", n.Sheet, n.Row, n.Reason)
	}
}

// runServer 本地服务: 启动 web 界面替代命令行
func runServer(cfg *config.AppConfig) {
	fmt.Println("==========================================")
	fmt.Println("  OreSync - 周报台账同步工具")
	fmt.Println("==========================================")

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
	} else {
		fmt.Printf("数据目录: %s\n", dataDir)
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中, 监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器, 请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.Close(); err != nil {
		log.Printf("关闭资源失败: %v", err)
	}
}
