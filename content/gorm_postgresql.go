// content/gorm_postgresql.go
package content

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardclash/gameserver/models"
)

// GormPostgreSQL 使用GORM的内容目录实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// 定义GORM模型
type MemeModel struct {
	ID               uint   `gorm:"primaryKey"`
	URL              string `gorm:"not null"`
	ImageOrientation string `gorm:"not null;default:horizontal"`
	CreatedAt        time.Time
}

func (MemeModel) TableName() string { return "memes" }

type PhraseModel struct {
	ID        uint   `gorm:"primaryKey"`
	Phrase    string `gorm:"not null"`
	CreatedAt time.Time
}

func (PhraseModel) TableName() string { return "phrases" }

// NewGormPostgreSQL 创建GORM内容目录连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold: time.Second,   // 慢SQL阈值
			LogLevel:      logger.Silent, // 日志级别
			Colorful:      false,         // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&MemeModel{}, &PhraseModel{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// RandomJudgeCards 随机抽取提示卡
func (g *GormPostgreSQL) RandomJudgeCards(ctx context.Context, n int) ([]models.CardContent, error) {
	var memes []MemeModel
	err := g.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(n).
		Find(&memes).Error
	if err != nil {
		return nil, err
	}
	if len(memes) == 0 {
		return nil, ErrNoContent
	}

	cards := make([]models.CardContent, 0, len(memes))
	for _, m := range memes {
		cards = append(cards, models.Prompt(m.URL, m.ImageOrientation))
	}
	return cards, nil
}

// RandomAnswerCards 随机抽取答案卡
func (g *GormPostgreSQL) RandomAnswerCards(ctx context.Context, n int) ([]models.CardContent, error) {
	var phrases []PhraseModel
	err := g.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(n).
		Find(&phrases).Error
	if err != nil {
		return nil, err
	}
	if len(phrases) == 0 {
		return nil, ErrNoContent
	}

	cards := make([]models.CardContent, 0, len(phrases))
	for _, p := range phrases {
		cards = append(cards, models.Phrase(p.Phrase))
	}
	return cards, nil
}

// AddMeme 新增提示卡内容
func (g *GormPostgreSQL) AddMeme(ctx context.Context, url, orientation string) error {
	return g.db.WithContext(ctx).Create(&MemeModel{URL: url, ImageOrientation: orientation}).Error
}

// AddPhrase 新增答案卡内容
func (g *GormPostgreSQL) AddPhrase(ctx context.Context, phrase string) error {
	return g.db.WithContext(ctx).Create(&PhraseModel{Phrase: phrase}).Error
}

// Close 关闭数据库连接
func (g *GormPostgreSQL) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
