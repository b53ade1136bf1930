package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FelipeHuencho/intranet-csah/app/config"
	"github.com/FelipeHuencho/intranet-csah/app/database"
	"github.com/FelipeHuencho/intranet-csah/app/models"
	"github.com/FelipeHuencho/intranet-csah/app/routes/auth"
)

func main() {
	rut := flag.String("rut", "", "RUT of the new user")
	role := flag.String("role", "student", "role: student, guardian, teacher, admin, finance_admin")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	email := flag.String("email", "", "contact email (optional)")
	password := flag.String("password", "", "initial password")
	pin := flag.String("pin", "", "payment PIN (guardians only, optional)")
	flag.Parse()

	if *rut == "" || *firstName == "" || *lastName == "" || *password == "" {
		fmt.Println("Usage: add_user -rut 12345678-9 -role guardian -first-name Ana -last-name Soto -password secret123 [-email a@b.cl] [-pin 1234]")
		os.Exit(1)
	}

	config.Load()
	db := config.GetDB()
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	user := &models.User{
		RUT:          *rut,
		Role:         models.Role(*role),
		FirstName:    *firstName,
		LastName:     *lastName,
		ActiveStatus: models.Active,
		Password:     hashed,
	}
	if *email != "" {
		user.Email = email
	}

	if err := database.CreateUser(db, user); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	if *pin != "" {
		profile := &models.GuardianProfile{UserID: user.ID, PaymentPIN: pin}
		if err := database.UpsertGuardianProfile(db, profile); err != nil {
			fmt.Printf("Error setting payment PIN: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("User created successfully: %s %s (%s, %s)\n", user.FirstName, user.LastName, user.RUT, user.Role)
}
