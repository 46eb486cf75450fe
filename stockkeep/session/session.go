package session

import (
	"errors"
	"io"
	"strconv"

	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/console"
	"github.com/steelcutops/stockkeep/stockkeep/productmanager"
	"github.com/steelcutops/stockkeep/stockkeep/usermanager"
)

// Session is the command loop of one authenticated user.
// Run returns when the user picks exit or input runs out.
type Session interface {
	Run() error
}

type menu struct {
	title string
	items []string
}

// NewSession selects the command loop for the user's role.
func NewSession(u *usermanager.User, users usermanager.UserManager, products productmanager.ProductManager, c *console.Console, log logger.Logger) Session {
	switch u.Role.Kind() {
	case usermanager.RoleAdmin:
		return &AdminSession{User: u, Products: products, Console: c, Logger: log}
	default:
		return &RegularSession{User: u, Users: users, Products: products, Console: c, Logger: log}
	}
}

// choose prints m and returns the raw choice.
func choose(c *console.Console, m menu) (string, error) {
	c.Println()
	c.Println("--- " + m.title + " ---")
	for i, item := range m.items {
		c.Printf("%d. %s\n", i+1, item)
	}
	return c.ReadLine("Choose an action: ")
}

func printProducts(c *console.Console, title string, products []productmanager.Product) {
	c.Println()
	c.Println("--- " + title + " ---")
	for _, p := range products {
		c.Printf("%s: %d pcs at %s\n", p.Name, p.Quantity, strconv.FormatFloat(p.Price, 'f', -1, 64))
	}
}

// endOfInput reports whether err means the input has run out.
// Any other error is shown to the user and logged.
func endOfInput(c *console.Console, log logger.Logger, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) {
		return true
	}
	log.Error("Action failed", "error", err)
	c.Printf("Error: %v\n", err)
	return false
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
