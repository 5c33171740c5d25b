package main

import (
	"github.com/amirasaad/urbanbank/pkg/domain/user"
	"github.com/shopspring/decimal"
)

type seedUser struct {
	Username      string
	Password      string
	FullName      string
	AccountNumber string
	RoutingNumber string
	Balance       int64
}

var seedUsers = []seedUser{
	{"jdoe", "password123", "Johnathan Doe", "483920174", "021000021", 7421000},
	{"asimmons", "mysecurepass", "Alicia Simmons", "602348291", "111000614", 5123400},
	{"mcollins", "collins2024", "Michael Collins", "208674553", "091000022", 2879000},
	{"lchow", "lydia88", "Lydia Chow", "758403219", "026009593", 6684000},
	{"urbanholdings", "urban123", "Urban Holdings Ltd", "304918273", "021000021", 7350000},
	{"zenithcapital", "zenith123", "Zenith Capital Group", "849302716", "111000614", 6210000},
	{"apexinnovations", "apex123", "Apex Innovations LLC", "507384920", "091000022", 4950000},
	{"empiretrust", "empire123", "Empire Trust Partners", "120948375", "026009593", 8120000},
	{"novaindustries", "nova123", "Nova Industries Corp", "730194826", "053000219", 5340000},
	{"silverline", "silver123", "Silverline Global Investments", "894203571", "121000358", 2590000},
}

func (s seedUser) domain(hash string) *user.User {
	return &user.User{
		Username:      s.Username,
		Password:      hash,
		FullName:      s.FullName,
		AccountNumber: s.AccountNumber,
		RoutingNumber: s.RoutingNumber,
		Balance:       decimal.NewFromInt(s.Balance),
	}
}
