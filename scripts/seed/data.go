package main

import "github.com/google/uuid"

type seedUser struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type seedCustomer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

type seedInvoice struct {
	CustomerID string
	Amount     int64
	Status     string
	Date       string
}

type seedRevenue struct {
	Month   string
	Revenue int
}

type seedTodo struct {
	ID       string
	Complete int
	Content  string
}

const seedUserID = "410544b2-4001-4271-9855-fec4b6a6442a"

var users = []seedUser{
	{ID: seedUserID, Name: "User", Email: "user@nextmail.com", Password: "123456"},
}

var customers = []seedCustomer{
	{ID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{ID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{ID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{ID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{ID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{ID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

var invoices = []seedInvoice{
	{CustomerID: customers[0].ID, Amount: 15795, Status: "pending", Date: "2022-12-06"},
	{CustomerID: customers[1].ID, Amount: 20348, Status: "pending", Date: "2022-11-14"},
	{CustomerID: customers[4].ID, Amount: 3040, Status: "paid", Date: "2022-10-29"},
	{CustomerID: customers[3].ID, Amount: 44800, Status: "paid", Date: "2023-09-10"},
	{CustomerID: customers[5].ID, Amount: 34577, Status: "pending", Date: "2023-08-05"},
	{CustomerID: customers[2].ID, Amount: 54246, Status: "pending", Date: "2023-07-16"},
	{CustomerID: customers[0].ID, Amount: 666, Status: "pending", Date: "2023-06-27"},
	{CustomerID: customers[3].ID, Amount: 32545, Status: "paid", Date: "2023-06-09"},
	{CustomerID: customers[4].ID, Amount: 1250, Status: "paid", Date: "2023-06-17"},
	{CustomerID: customers[5].ID, Amount: 8546, Status: "paid", Date: "2023-06-07"},
	{CustomerID: customers[1].ID, Amount: 500, Status: "paid", Date: "2023-08-19"},
	{CustomerID: customers[5].ID, Amount: 8945, Status: "paid", Date: "2023-06-03"},
	{CustomerID: customers[2].ID, Amount: 1000, Status: "paid", Date: "2022-06-05"},
}

var revenue = []seedRevenue{
	{"Jan", 2000}, {"Feb", 1800}, {"Mar", 2200}, {"Apr", 2500},
	{"May", 2300}, {"Jun", 3200}, {"Jul", 3500}, {"Aug", 3700},
	{"Sep", 2500}, {"Oct", 2800}, {"Nov", 3000}, {"Dec", 4800},
}

var todos = []seedTodo{
	{ID: "d6e15727-712f-4377-ac19-d45682c144b9", Complete: 0, Content: "Decide what to do today"},
}

// invoiceNamespace derives stable invoice IDs so reruns hit ON CONFLICT.
var invoiceNamespace = uuid.MustParse("6f1c2a8e-3b4d-4c5e-9f60-71a2b3c4d5e6")

func (inv seedInvoice) id() string {
	return uuid.NewSHA1(invoiceNamespace, []byte(inv.CustomerID+"|"+inv.Date)).String()
}
