package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/database"
	"github.com/complianceguard/regdash/internal/emaillog"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/models"
	"github.com/complianceguard/regdash/internal/services"
	"github.com/complianceguard/regdash/tests/helpers"
)

func dbImage() string {
	if img := os.Getenv("DB_IMAGE"); img != "" {
		return img
	}
	return "mysql:8.4"
}

func postgresImage() string {
	if img := os.Getenv("POSTGRES_IMAGE"); img != "" {
		return img
	}
	return "postgres:16"
}

// TestWithMySQL tests the contact registry against a real MySQL container
func TestWithMySQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MySQL container
	mysqlContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage(),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	defer func() {
		if err := mysqlContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MySQL container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mysqlContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mysqlContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("ContactRoundTrip", func(t *testing.T) {
		testContactRoundTrip(t, db)
	})

	t.Run("ContactUpsertByCode", func(t *testing.T) {
		testContactUpsertByCode(t, db)
	})

	t.Run("NotificationFeed", func(t *testing.T) {
		testNotificationFeed(t, db)
	})
}

// TestWithPostgreSQL tests the contact registry against a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start PostgreSQL container
	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage(),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	// Get container host and port
	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(2 * time.Second)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("ContactRoundTrip", func(t *testing.T) {
		testContactRoundTrip(t, db)
	})

	t.Run("NotificationFeed", func(t *testing.T) {
		testNotificationFeed(t, db)
	})
}

// testContactRoundTrip tests creating, reading, and deleting a contact
func testContactRoundTrip(t *testing.T, db *gorm.DB) {
	contact := helpers.SeedContact(t, db, "환경기획그룹", "ENV", "env@company.com")

	found, err := services.GetContactByCode(db, "ENV")
	if err != nil {
		t.Fatalf("Failed to look up contact: %v", err)
	}
	if found == nil || found.ContactID != contact.ContactID {
		t.Fatalf("Unexpected contact lookup result: %+v", found)
	}

	email, err := services.ContactEmailForDepartment(db, "환경기획그룹")
	if err != nil {
		t.Fatalf("Failed to resolve department email: %v", err)
	}
	if email != "env@company.com" {
		t.Errorf("Expected env@company.com, got %s", email)
	}

	if err := services.DeleteContact(db, "ENV"); err != nil {
		t.Fatalf("Failed to delete contact: %v", err)
	}

	found, err = services.GetContactByCode(db, "ENV")
	if err != nil {
		t.Fatalf("Lookup after delete failed: %v", err)
	}
	if found != nil {
		t.Errorf("Expected the contact gone, got %+v", found)
	}
}

// testContactUpsertByCode tests that upserting the same code updates in place
func testContactUpsertByCode(t *testing.T, db *gorm.DB) {
	first := helpers.SeedContact(t, db, "정보보호사무국", "SEC", "sec@company.com")

	update := models.DepartmentContact{
		Name:         "정보보호사무국",
		Code:         "SEC",
		ContactName:  "박보안",
		ContactEmail: "sec-lead@company.com",
	}
	if err := services.UpsertContact(db, &update); err != nil {
		t.Fatalf("Failed to upsert contact: %v", err)
	}

	if update.ContactID != first.ContactID {
		t.Errorf("Expected upsert to keep contact id %d, got %d", first.ContactID, update.ContactID)
	}

	var count int64
	if err := db.Model(&models.DepartmentContact{}).Where("code = ?", "SEC").Count(&count).Error; err != nil {
		t.Fatalf("Failed to count contacts: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row for code SEC, got %d", count)
	}
}

// testNotificationFeed tests notification create and mark-read
func testNotificationFeed(t *testing.T, db *gorm.DB) {
	created, err := services.CreateNotification(db, services.NotificationSystem, "월간 분석 완료", "완료되었습니다.", nil)
	if err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}

	list, err := services.ListNotifications(db, 10)
	if err != nil {
		t.Fatalf("Failed to list notifications: %v", err)
	}
	if len(list) == 0 {
		t.Fatal("Expected at least one notification")
	}

	if err := services.MarkNotificationRead(db, created.NotificationID); err != nil {
		t.Fatalf("Failed to mark notification read: %v", err)
	}

	var got models.Notification
	if err := db.First(&got, created.NotificationID).Error; err != nil {
		t.Fatalf("Failed to re-read notification: %v", err)
	}
	if !got.IsRead {
		t.Error("Expected the notification marked read")
	}
}

// TestHealthCheck tests the health check against a real database
func TestHealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MySQL container
	mysqlContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage(),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	defer func() {
		if err := mysqlContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MySQL container: %v", err)
		}
	}()

	host, err := mysqlContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mysqlContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dir := t.TempDir()
	cfg := &config.Config{
		DBType:     "mysql",
		DBHost:     host,
		DBPort:     port.Port(),
		DBDatabase: "testdb",
		DBUser:     "testuser",
		DBPassword: "testpass",
		ExcelPath:  helpers.SampleWorkbook(t, dir),
	}

	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ml := mailer.New(cfg, emaillog.New(dir+"/logging.txt"))

	// Database up, workbook present, demo transport
	result := services.HealthCheck(cfg, db, ml)
	if result.Status != "healthy" {
		t.Errorf("Expected healthy, got: %s (%s)", result.Status, result.ErrorMessage)
	}
	if result.Database != "ok" {
		t.Errorf("Expected database ok, got: %s", result.Database)
	}
	if result.Mailer != mailer.TransportDemo {
		t.Errorf("Expected demo transport, got: %s", result.Mailer)
	}

	// A missing workbook makes the service unhealthy
	cfg.ExcelPath = dir + "/missing.xlsx"
	result = services.HealthCheck(cfg, db, ml)
	if result.Status != "unhealthy" {
		t.Errorf("Expected unhealthy, got: %s", result.Status)
	}
	if result.DataFile != "missing" {
		t.Errorf("Expected data file missing, got: %s", result.DataFile)
	}
}
