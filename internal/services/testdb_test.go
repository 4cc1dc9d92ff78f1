package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// The production schema rides on postgres (uuid_generate_v4, jsonb), so test
// tables are declared by hand instead of AutoMigrate. Column names must stay
// in sync with the gorm tags in internal/types.
var testSchema = []string{
	`CREATE TABLE "user" (
		id text PRIMARY KEY,
		email text NOT NULL UNIQUE,
		first_name text NOT NULL,
		last_name text NOT NULL,
		learning_style text,
		preferred_topics text,
		available_time_minutes integer NOT NULL DEFAULT 0,
		current_level integer NOT NULL DEFAULT 1,
		xp integer NOT NULL DEFAULT 0,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
	`CREATE TABLE course (
		id text PRIMARY KEY,
		title text NOT NULL,
		description text,
		topics text,
		prerequisites text,
		difficulty text NOT NULL DEFAULT 'beginner',
		estimated_hours real NOT NULL DEFAULT 0,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
	`CREATE TABLE enrollment (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		course_id text NOT NULL,
		progress integer NOT NULL DEFAULT 0,
		completed numeric NOT NULL DEFAULT false,
		completed_at datetime,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime,
		UNIQUE (user_id, course_id)
	)`,
	`CREATE TABLE learning_path (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		name text NOT NULL,
		description text,
		difficulty text NOT NULL,
		estimated_completion_time integer NOT NULL DEFAULT 0,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
	`CREATE TABLE learning_path_course (
		id text PRIMARY KEY,
		path_id text NOT NULL,
		course_id text NOT NULL,
		course_order integer NOT NULL,
		is_required numeric NOT NULL DEFAULT true,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime,
		UNIQUE (path_id, course_order)
	)`,
	`CREATE TABLE user_event (
		id text PRIMARY KEY,
		user_id text NOT NULL,
		event_type text NOT NULL,
		xp_awarded integer NOT NULL DEFAULT 0,
		metadata text,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
	`CREATE TABLE flashcard (
		id text PRIMARY KEY,
		course_id text NOT NULL,
		front text NOT NULL,
		back text NOT NULL,
		topic text,
		source text,
		created_at datetime,
		updated_at datetime,
		deleted_at datetime
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create test schema: %v", err)
		}
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}
