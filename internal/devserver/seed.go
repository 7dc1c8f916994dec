package devserver

import (
	"github.com/pkg/errors"

	client "github.com/rm-Shayan/finetech-frontened/client"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// Demo names the seeded accounts.
type Demo struct {
	Banks    []client.Bank
	Customer client.Profile
	Officer  client.Profile
	Admin    client.Profile
}

var demoBanks = []struct{ name, code string }{
	{"Habib Bank Limited", "HBL"},
	{"United Bank Limited", "UBL"},
	{"Meezan Bank", "MEZN"},
}

// SeedDemo fills the store with a few banks, one account per role and a
// second officer at another bank.
func (s *Store) SeedDemo() (Demo, error) {
	var d Demo
	for _, b := range demoBanks {
		d.Banks = append(d.Banks, s.AddBank(b.name, b.code))
	}
	var err error
	if d.Customer, err = s.CreateAccount("Ayesha Khan", "customer@example.com", DemoPassword, client.RoleCustomer, d.Banks[0].ID); err != nil {
		return Demo{}, errors.Wrap(err, "seed customer")
	}
	if d.Officer, err = s.CreateAccount("Bilal Ahmed", "officer@hbl.example.com", DemoPassword, client.RoleBankOfficer, d.Banks[0].ID); err != nil {
		return Demo{}, errors.Wrap(err, "seed officer")
	}
	if _, err = s.CreateAccount("Sana Malik", "officer@ubl.example.com", DemoPassword, client.RoleBankOfficer, d.Banks[1].ID); err != nil {
		return Demo{}, errors.Wrap(err, "seed second officer")
	}
	if d.Admin, err = s.CreateAccount("Regulator", "admin@sbp.example.com", DemoPassword, client.RoleSBPAdmin, ""); err != nil {
		return Demo{}, errors.Wrap(err, "seed admin")
	}
	return d, nil
}
