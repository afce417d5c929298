package keyring

import (
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	testConnStr := "postgres://testuser@localhost:5432/trana?sslmode=disable"

	if err := SetConnectionString(testConnStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	retrieved, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if retrieved != testConnStr {
		t.Errorf("GetConnectionString() = %q, want %q", retrieved, testConnStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestGetConnectionStringNotFound(t *testing.T) {
	gokeyring.MockInit()
	_ = DeleteConnectionString()

	if _, err := GetConnectionString(); err != ErrNotFound {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://testuser@localhost:5432/trana"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if err := DeleteConnectionString(); err != ErrNotFound {
		t.Errorf("second DeleteConnectionString() error = %v, want %v", err, ErrNotFound)
	}
}

func TestAPITokenIsSeparateFromConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://u@localhost/trana"); err != nil {
		t.Fatal(err)
	}
	if err := SetAPIToken("secret-token"); err != nil {
		t.Fatal(err)
	}

	token, err := GetAPIToken()
	if err != nil {
		t.Fatalf("GetAPIToken() failed: %v", err)
	}
	if token != "secret-token" {
		t.Errorf("GetAPIToken() = %q, want %q", token, "secret-token")
	}

	if err := DeleteAPIToken(); err != nil {
		t.Fatal(err)
	}
	if _, err := GetConnectionString(); err != nil {
		t.Errorf("deleting the API token removed the connection string: %v", err)
	}
	if err := SetAPIToken(""); err == nil {
		t.Error("SetAPIToken(\"\") should return an error")
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("IsAvailable() = false with mock keyring")
	}
}
