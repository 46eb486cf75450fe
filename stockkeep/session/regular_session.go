package session

import (
	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/console"
	"github.com/steelcutops/stockkeep/stockkeep/productmanager"
	"github.com/steelcutops/stockkeep/stockkeep/usermanager"
)

var regularMenu = menu{
	title: "User menu",
	items: []string{"View products", "Buy product", "Purchase history", "Change password", "Exit"},
}

type RegularSession struct {
	User     *usermanager.User
	Users    usermanager.UserManager
	Products productmanager.ProductManager
	Console  *console.Console
	Logger   logger.Logger
}

func (s *RegularSession) Run() error {
	for {
		choice, err := choose(s.Console, regularMenu)
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			printProducts(s.Console, "Products", s.Products.ListProducts())
		case "2":
			err = s.purchaseProduct()
		case "3":
			s.viewHistory()
		case "4":
			err = s.changePassword()
		case "5":
			return nil
		default:
			s.Console.Println("Invalid choice.")
		}

		if endOfInput(s.Console, s.Logger, err) {
			return nil
		}
	}
}

// purchaseProduct takes one unit of the named product and records the name as
// typed. A missing product and an empty stock are reported the same way.
func (s *RegularSession) purchaseProduct() error {
	name, err := s.Console.ReadLine("Enter the product name: ")
	if err != nil {
		return err
	}

	p, err := s.Products.FindByName(name)
	if err != nil {
		s.Console.Println("Product unavailable.")
		return nil
	}
	ok, err := s.Products.AdjustQuantity(p, -1)
	if err != nil {
		return err
	}
	if !ok {
		s.Console.Println("Product unavailable.")
		return nil
	}

	if err := s.Users.AppendHistory(s.User, name); err != nil {
		return err
	}
	s.Console.Println("Purchase complete!")
	return nil
}

func (s *RegularSession) viewHistory() {
	s.Console.Println()
	s.Console.Println("--- Your purchase history ---")
	for _, item := range s.Users.History(s.User) {
		s.Console.Println(item)
	}
}

func (s *RegularSession) changePassword() error {
	password, err := s.Console.ReadPassword("New password: ")
	if err != nil {
		return err
	}
	if err := s.Users.RotatePassword(s.User, password); err != nil {
		return err
	}
	s.Console.Println("Password updated.")
	return nil
}
