// content/postgresql.go
package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/cardclash/gameserver/models"
)

// PostgreSQL 内容目录实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 内容目录连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建提示卡表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS memes (
            id SERIAL PRIMARY KEY,
            url TEXT NOT NULL,
            image_orientation VARCHAR(50) NOT NULL DEFAULT 'horizontal',
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建答案卡表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS phrases (
            id SERIAL PRIMARY KEY,
            phrase TEXT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	return err
}

// RandomJudgeCards 随机抽取提示卡
func (p *PostgreSQL) RandomJudgeCards(ctx context.Context, n int) ([]models.CardContent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx,
		`SELECT url, image_orientation FROM memes ORDER BY RANDOM() LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]models.CardContent, 0, n)
	for rows.Next() {
		var url, orientation string
		if err := rows.Scan(&url, &orientation); err != nil {
			return nil, err
		}
		cards = append(cards, models.Prompt(url, orientation))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoContent
	}
	return cards, nil
}

// RandomAnswerCards 随机抽取答案卡
func (p *PostgreSQL) RandomAnswerCards(ctx context.Context, n int) ([]models.CardContent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx,
		`SELECT phrase FROM phrases ORDER BY RANDOM() LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]models.CardContent, 0, n)
	for rows.Next() {
		var phrase string
		if err := rows.Scan(&phrase); err != nil {
			return nil, err
		}
		cards = append(cards, models.Phrase(phrase))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, ErrNoContent
	}
	return cards, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
