// 离线生成全部评估的达成度工作簿
//
// 读取包含全部成绩列的工作簿，按 Test1、Test2、IP、IP1、IP2 的顺序计算，
// 路由状态只保存在内存中，不连接数据库与 Redis。
//
// 用法: go run scripts/offline_report.go -in marks.xlsx -out report.xlsx [-summary summary.yaml]
// 参数也可通过 CO_REPORT_IN / CO_REPORT_OUT / CO_REPORT_SUMMARY 环境变量设置

package main

import (
	"co_attainment_backend/internal/attainment"
	"co_attainment_backend/internal/config"
	"co_attainment_backend/internal/service"
	"co_attainment_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"

	"github.com/peterbourgon/ff/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// summaryDoc 班级汇总的 YAML 形式
type summaryDoc struct {
	Assessment     string            `yaml:"assessment"`
	Title          string            `yaml:"title"`
	Students       int               `yaml:"students"`
	TotalPresent   int               `yaml:"totalPresent,omitempty"`
	RoutedCO       string            `yaml:"routedCO,omitempty"`
	SelectedCO     string            `yaml:"selectedCO,omitempty"`
	Achieved       map[string]string `yaml:"achievedPercents,omitempty"`
	Levels         map[string]int    `yaml:"attainmentLevels,omitempty"`
	OverallPercent string            `yaml:"overallPercent,omitempty"`
	Remedial       int               `yaml:"remedialStudents"`
}

func summarize(r attainment.Report) summaryDoc {
	doc := summaryDoc{
		Assessment: string(r.Assessment),
		Title:      r.Title,
		Students:   len(r.Rows),
		Remedial:   len(r.Remedial),
	}
	if r.RoutedCO != nil {
		doc.RoutedCO = r.RoutedCO.String()
	}
	s := r.Summary
	if s == nil {
		return doc
	}
	doc.TotalPresent = s.TotalPresent
	doc.OverallPercent = s.OverallPercent
	if s.SelectedCO != nil {
		doc.SelectedCO = s.SelectedCO.String()
	}
	doc.Achieved = map[string]string{}
	doc.Levels = map[string]int{}
	for _, c := range attainment.AllCOs {
		if s.AttendedCounts[c] == 0 {
			continue
		}
		doc.Achieved[c.String()] = s.AchievedPercents[c]
		doc.Levels[c.String()] = int(s.AttainmentLevels[c])
	}
	return doc
}

func main() {
	fs := flag.NewFlagSet("offline_report", flag.ExitOnError)
	var (
		in        = fs.String("in", "", "成绩工作簿路径")
		out       = fs.String("out", "co_attainment_all.xlsx", "输出工作簿路径")
		summary   = fs.String("summary", "", "可选，班级汇总 YAML 输出路径")
		configDir = fs.String("config", "configs", "配置目录，仅用于日志设置")
	)
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("CO_REPORT")); err != nil {
		log.Fatalf("参数解析失败: %v", err)
	}
	if *in == "" {
		log.Fatal("缺少 -in 参数")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	src, err := os.Open(*in)
	if err != nil {
		log.Fatalf("无法打开工作簿: %v", err)
	}
	defer src.Close()

	workbook := service.NewWorkbookService()
	rows, err := workbook.ReadRows(src)
	if err != nil {
		log.Fatalf("读取工作簿失败: %v", err)
	}

	reports, err := service.NewAttainmentService(nil).ComputeAll(context.Background(), attainment.NewMemoryRoutingStore(), rows)
	if err != nil {
		log.Fatalf("计算失败: %v", err)
	}

	data, err := workbook.Workbook(reports)
	if err != nil {
		log.Fatalf("生成工作簿失败: %v", err)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("写入工作簿失败: %v", err)
	}
	logger.Log.Info("offline report written", zap.String("out", *out), zap.Int("students", len(rows)))

	if *summary != "" {
		docs := make([]summaryDoc, 0, len(reports))
		for _, r := range reports {
			docs = append(docs, summarize(r))
		}
		data, err := yaml.Marshal(docs)
		if err != nil {
			log.Fatalf("生成汇总失败: %v", err)
		}
		if err := os.WriteFile(*summary, data, 0644); err != nil {
			log.Fatalf("写入汇总失败: %v", err)
		}
	}

	log.Println("完成！")
}
