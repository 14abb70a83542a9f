// createadmin seeds a staff login.
//
//	createadmin --username ana --name "Ana Souza" --password secret --role administrator
package main

import (
	"flag"
	"log/slog"
	"os"

	"dojoku_backend/internals/configs"
	"dojoku_backend/internals/constants"
	database "dojoku_backend/internals/databases"
	userModel "dojoku_backend/internals/features/academy/users/model"
	"dojoku_backend/internals/observability"
)

func main() {
	username := flag.String("username", "", "login name (unique)")
	name := flag.String("name", "", "display name")
	password := flag.String("password", "", "initial password")
	role := flag.String("role", constants.RoleAdministrator, "role")
	flag.Parse()

	observability.SetupLogging()

	if *username == "" || *name == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !constants.IsStaffRole(*role) {
		slog.Error("role must be a staff role", "role", *role)
		os.Exit(2)
	}

	configs.LoadEnv()
	database.ConnectDB()
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	user := userModel.UserModel{
		UserUsername: *username,
		UserFullName: *name,
		UserRole:     *role,
		UserIsActive: true,
	}
	if err := user.SetPassword(*password); err != nil {
		slog.Error("password hash failed", "err", err)
		os.Exit(1)
	}
	if err := database.DB.Create(&user).Error; err != nil {
		slog.Error("user create failed", "err", err)
		os.Exit(1)
	}
	slog.Info("user created", "user_id", user.UserID, "role", user.UserRole)
}
