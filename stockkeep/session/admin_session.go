package session

import (
	"errors"

	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/console"
	"github.com/steelcutops/stockkeep/stockkeep/productmanager"
	"github.com/steelcutops/stockkeep/stockkeep/usermanager"
)

var adminMenu = menu{
	title: "Admin menu",
	items: []string{"Add product", "Remove product", "Edit product", "View statistics", "Exit"},
}

type AdminSession struct {
	User     *usermanager.User
	Products productmanager.ProductManager
	Console  *console.Console
	Logger   logger.Logger
}

func (s *AdminSession) Run() error {
	for {
		choice, err := choose(s.Console, adminMenu)
		if err != nil {
			return ignoreEOF(err)
		}

		switch choice {
		case "1":
			err = s.addProduct()
		case "2":
			err = s.removeProduct()
		case "3":
			err = s.editProduct()
		case "4":
			printProducts(s.Console, "Statistics", s.Products.ListProducts())
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

func (s *AdminSession) addProduct() error {
	name, err := s.Console.ReadLine("Product name: ")
	if err != nil {
		return err
	}
	quantity, err := s.Console.ReadInt("Quantity: ")
	if err != nil {
		return err
	}
	price, err := s.Console.ReadFloat("Price: ")
	if err != nil {
		return err
	}

	if _, err := s.Products.AddProduct(name, quantity, price); err != nil {
		return err
	}
	s.Console.Println("Product added.")
	return nil
}

func (s *AdminSession) removeProduct() error {
	name, err := s.Console.ReadLine("Enter the product name to remove: ")
	if err != nil {
		return err
	}

	err = s.Products.RemoveProduct(name)
	if errors.Is(err, productmanager.ErrProductNotFound) {
		s.Console.Println("Product not found.")
		return nil
	}
	if err != nil {
		return err
	}
	s.Console.Println("Product removed.")
	return nil
}

func (s *AdminSession) editProduct() error {
	name, err := s.Console.ReadLine("Enter the product name to edit: ")
	if err != nil {
		return err
	}
	if _, err := s.Products.FindByName(name); errors.Is(err, productmanager.ErrProductNotFound) {
		s.Console.Println("Product not found.")
		return nil
	}

	var edit productmanager.ProductEdit
	newName, err := s.Console.ReadLine("New name (leave empty to keep): ")
	if err != nil {
		return err
	}
	if newName != "" {
		edit.Name = &newName
	}
	if edit.Quantity, err = s.Console.ReadOptionalInt("New quantity (leave empty to keep): "); err != nil {
		return err
	}
	if edit.Price, err = s.Console.ReadOptionalFloat("New price (leave empty to keep): "); err != nil {
		return err
	}

	if _, err := s.Products.EditProduct(name, edit); err != nil {
		return err
	}
	s.Console.Println("Product updated.")
	return nil
}
