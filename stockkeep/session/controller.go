package session

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/steelcutops/stockkeep/logger"
	"github.com/steelcutops/stockkeep/stockkeep/console"
	"github.com/steelcutops/stockkeep/stockkeep/productmanager"
	"github.com/steelcutops/stockkeep/stockkeep/usermanager"
)

// Controller runs one interactive session: load both stores, authenticate
// once, run the role's command loop and flush both stores on the way out.
type Controller struct {
	Users    usermanager.UserManager
	Products productmanager.ProductManager
	Console  *console.Console
	Logger   logger.Logger
}

func NewController(users usermanager.UserManager, products productmanager.ProductManager, c *console.Console, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{Users: users, Products: products, Console: c, Logger: log}
}

// Run returns usermanager.ErrAuthorizationFailed when the single login attempt fails.
func (c *Controller) Run() error {
	if err := c.Users.LoadUsers(); err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if err := c.Products.LoadProducts(); err != nil {
		return fmt.Errorf("loading products: %w", err)
	}

	c.Console.Println("Welcome!")
	u, err := c.authorize()
	if err != nil {
		return err
	}

	runErr := NewSession(u, c.Users, c.Products, c.Console, c.Logger).Run()

	var result *multierror.Error
	if runErr != nil {
		result = multierror.Append(result, runErr)
	}
	if err := c.flush(); err != nil {
		result = multierror.Append(result, err)
	}
	c.Logger.Info("Session finished", "username", u.Username)
	return result.ErrorOrNil()
}

func (c *Controller) authorize() (*usermanager.User, error) {
	username, err := c.Console.ReadLine("Login: ")
	if err != nil {
		return nil, err
	}
	password, err := c.Console.ReadPassword("Password: ")
	if err != nil {
		return nil, err
	}

	u, err := c.Users.Authorize(username, password)
	if err != nil {
		c.Console.Println("Authorization failed!")
		return nil, err
	}
	return u, nil
}

// flush saves both stores, attempting the second even if the first fails.
func (c *Controller) flush() error {
	var result *multierror.Error
	if err := c.Users.SaveUsers(); err != nil {
		result = multierror.Append(result, fmt.Errorf("saving users: %w", err))
	}
	if err := c.Products.SaveProducts(); err != nil {
		result = multierror.Append(result, fmt.Errorf("saving products: %w", err))
	}
	return result.ErrorOrNil()
}
