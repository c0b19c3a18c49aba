package cmd

import (
	"fmt"
	"os"

	"github.com/authorshaven/haven-api/internal/config"
	"github.com/authorshaven/haven-api/internal/database"
	"github.com/authorshaven/haven-api/internal/model"
	"github.com/authorshaven/haven-api/internal/service"
	"github.com/spf13/cobra"
)

// databaseCmd 数据库管理命令
var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
	Long:  `数据库管理相关的命令，包括建表与清理`,
}

// initTablesCmd 初始化数据库表命令
// 示例：./haven-api db init-tables
var initTablesCmd = &cobra.Command{
	Use:   "init-tables",
	Short: "初始化数据库表",
	Long:  `初始化数据库表`,
	Run: func(cmd *cobra.Command, args []string) {
		initializeTables()
	},
}

// cleanupDBCmd 清理数据库命令
// 示例：./haven-api db cleanup
var cleanupDBCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "清理数据库",
	Long:  `清理过期的已读通知与孤儿标签`,
	Run: func(cmd *cobra.Command, args []string) {
		cleanupDatabase()
	},
}

func init() {
	databaseCmd.AddCommand(initTablesCmd)
	databaseCmd.AddCommand(cleanupDBCmd)

	rootCmd.AddCommand(databaseCmd)
}

// initializeTables 初始化数据库表
func initializeTables() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}

	if err := model.InitTables(database.GetDB()); err != nil {
		fmt.Printf("初始化数据库表失败: %v\n", err)
		return
	}
	fmt.Println("数据库表初始化成功")
}

// cleanupDatabase 清理数据库
func cleanupDatabase() {
	if err := initializeSystem(); err != nil {
		fmt.Printf("系统初始化失败: %v\n", err)
		os.Exit(1)
	}

	// 清理保留期外且全部已读的通知
	if err := service.NewNotificationService().CleanupRead(config.GlobalConfig.Notification.CleanupDays); err != nil {
		fmt.Printf("清理过期通知失败: %v\n", err)
		return
	}
	fmt.Println("过期通知清理完成")

	// 清理不再关联任何文章的标签
	if err := service.NewTagService().PruneOrphans(database.GetDB()); err != nil {
		fmt.Printf("清理孤儿标签失败: %v\n", err)
		return
	}
	fmt.Println("孤儿标签清理完成")

	fmt.Println("数据库清理完成")
}
