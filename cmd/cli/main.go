package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ZilDuck/elysium-marketplace/internal/config"
	"github.com/ZilDuck/elysium-marketplace/internal/config/di"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var container *di.Container

func main() {
	config.Init()

	var err error
	if container, err = di.NewContainer(); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}
	defer func() { _ = container.Delete() }()

	app := &cli.App{
		Name:  "elysium",
		Usage: "Elysium marketplace tooling",
		Commands: []*cli.Command{
			{
				Name:   "mappings",
				Usage:  "Install the elasticsearch index mappings",
				Action: installMappings,
			},
			{
				Name:   "simulate",
				Usage:  "Run a list and buy against an in-memory marketplace and print the sale",
				Action: simulate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "price", Value: "100", Usage: "listing price in wei"},
					&cli.Uint64Flag{Name: "royalty", Value: 10, Usage: "collection royalty in basis points"},
					&cli.StringFlag{Name: "creator", Value: "0x0000000000000000000000000000000000000c01", Usage: "collection creator and seller"},
					&cli.StringFlag{Name: "buyer", Value: "0x0000000000000000000000000000000000000b01", Usage: "buyer"},
				},
			},
			{
				Name:      "address",
				Usage:     "Print the hex and bech32 forms of an address",
				ArgsUsage: "<address>",
				Action:    address,
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "nonce", Value: -1, Usage: "derive the address created by <address> at this nonce"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("CLI failed")
	}
}

func installMappings(c *cli.Context) error {
	if !config.Get().ElasticSearch.Enabled {
		return errors.New("elasticsearch is disabled")
	}

	if err := container.GetElastic().InstallMappings(); err != nil {
		return err
	}
	zap.L().Info("Mappings installed")

	return nil
}

func simulate(c *cli.Context) error {
	ctx := context.Background()
	f := container.GetFactory()
	market := container.GetMarketplace()
	ledger := container.GetLedger()

	creator, err := entity.ParseAddress(c.String("creator"))
	if err != nil {
		return err
	}
	buyer, err := entity.ParseAddress(c.String("buyer"))
	if err != nil {
		return err
	}
	price, err := entity.ParseWei(c.String("price"))
	if err != nil {
		return err
	}

	info, err := f.CreateCollection(creator, "Elysium NFT", "EST", c.Uint64("royalty"), creator)
	if err != nil {
		return err
	}
	collection, err := f.GetCollection(info.Address)
	if err != nil {
		return err
	}

	token, err := collection.Mint(creator, creator, "ipfs://QmRaWcj4SsKuYyaemp7upnjHxk44AtC13JBvzwGH3YbJzc")
	if err != nil {
		return err
	}
	if err := collection.Approve(creator, market.Address(), token.TokenId); err != nil {
		return err
	}
	if _, err := market.ListToken(ctx, creator, info.Address, token.TokenId, price); err != nil {
		return err
	}

	if _, err := ledger.Deposit(buyer, price); err != nil {
		return err
	}
	sale, err := market.BuyToken(ctx, buyer, info.Address, token.TokenId, price)
	if err != nil {
		return err
	}

	return printJSON(sale)
}

func address(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("an address is required")
	}

	addr, err := entity.ParseAddress(c.Args().First())
	if err != nil {
		return err
	}
	if nonce := c.Int64("nonce"); nonce >= 0 {
		addr = entity.DeriveAddress(addr, uint64(nonce))
	}

	fmt.Println(addr.String())
	fmt.Println(addr.Bech32())

	return nil
}

func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))
	return nil
}
