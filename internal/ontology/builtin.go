package ontology

// Builtin returns the built-in loan vocabulary, used when no vocabulary file
// is configured. It mirrors the core of the LOAN ontology modules: the loan
// class hierarchy, lender/borrower relations, the standard disjointness
// axioms, and the role constraints for lender and borrower eligibility.
func Builtin() *ConstraintModel {
	m := &ConstraintModel{
		Classes: []ClassInfo{
			{Name: "Loan", Description: "general loan concept"},
			{Name: "ConsumerLoan", Description: "loans to individual consumers"},
			{Name: "CommercialLoan", Description: "loans to businesses or corporations"},
			{Name: "Mortgage", Description: "real estate loans"},
			{Name: "StudentLoan", Description: "education financing"},
			{Name: "GreenLoan", Description: "sustainable or environmental financing"},
			{Name: "SecuredLoan", Description: "loans backed by collateral"},
			{Name: "UnsecuredLoan", Description: "loans without collateral"},
			{Name: "OpenEndCredit", Description: "revolving credit"},
			{Name: "ClosedEndCredit", Description: "fixed-term credit"},
			{Name: "Lender", Description: "party providing the loan"},
			{Name: "Borrower", Description: "party receiving the loan"},
			{Name: "NaturalPerson", Description: "individual human being"},
			{Name: "LegalEntity", Description: "organization with legal personality"},
			{Name: "Corporation", Description: "business entity"},
			{Name: "FinancialInstitution", Description: "banks and lending organizations"},
		},
		Properties: []PropertyInfo{
			{Name: "hasLender", Description: "loan has a lender"},
			{Name: "hasBorrower", Description: "loan has a borrower"},
			{Name: "hasLoanAmount", Description: "loan has an amount"},
			{Name: "hasInterestRate", Description: "loan has an interest rate"},
			{Name: "hasMaturityDate", Description: "loan has an end date"},
			{Name: "hasGuarantor", Description: "loan has a guarantor"},
			{Name: "hasCollateral", Description: "loan is secured by collateral"},
			{Name: "providesLoan", Description: "lender provides a loan"},
			{Name: "receivesLoan", Description: "borrower receives a loan"},
		},
		Disjoint: [][2]string{
			{"NaturalPerson", "LegalEntity"},
			{"SecuredLoan", "UnsecuredLoan"},
			{"OpenEndCredit", "ClosedEndCredit"},
			{"ConsumerLoan", "CommercialLoan"},
		},
		Roles: []Role{
			{
				Name:             "lender",
				SubjectRelations: []string{"providesLoan"},
				ObjectRelations:  []string{"hasLender"},
			},
			{
				Name:             "borrower",
				SubjectRelations: []string{"receivesLoan"},
				ObjectRelations:  []string{"hasBorrower"},
			},
		},
		Rules: []RoleRule{
			{
				Role:          "lender",
				ContextClass:  "CommercialLoan",
				ForbiddenType: "NaturalPerson",
				Message:       "NaturalPerson '{entity}' cannot be lender for a CommercialLoan",
			},
			{
				Role:          "lender",
				ContextClass:  "Mortgage",
				ForbiddenType: "NaturalPerson",
				Message:       "NaturalPerson '{entity}' cannot be lender for a Mortgage",
			},
			{
				Role:          "borrower",
				ContextClass:  "ConsumerLoan",
				ForbiddenType: "Corporation",
				Message:       "Corporation '{entity}' cannot be borrower for a ConsumerLoan",
			},
			{
				Role:          "borrower",
				ContextClass:  "CommercialLoan",
				ForbiddenType: "NaturalPerson",
				Message:       "NaturalPerson '{entity}' cannot be borrower for a CommercialLoan (commercial loans are for corporations/organizations)",
			},
		},
	}
	m.finalize()
	return m
}
