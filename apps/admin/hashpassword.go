package main

import (
	"fmt"

	"github.com/mergington/activities/core/teacher"
)

// hashPassword prints the argon2id hash of pwd once it passes the password policy.
func (cli *commandLine) hashPassword(uname, name, role, pwd string) error {
	nt := teacher.NewTeacher{
		Username:    uname,
		DisplayName: name,
		Role:        role,
		Password:    pwd,
	}
	if err := nt.Validate(cli.validate); err != nil {
		return cli.validationError(err)
	}

	hash, err := teacher.HashPassword(nt.Password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "  - username: %s\n    display_name: %s\n    role: %s\n    password: %q\n", nt.Username, nt.DisplayName, nt.Role, hash)
	return nil
}
