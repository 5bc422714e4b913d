package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"user-portal/internal/domain"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// PartialUpdate checks every present field on its own and returns only those
// fields, ready to be applied as a patch. Violations on different fields are
// combined; use errors.Is to pick one out.
func PartialUpdate(p domain.PartialUser) (domain.UserFields, error) {
	if p.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}

	fields := domain.UserFields{}
	var errs error
	if p.Name != nil {
		if name, err := alphabetic("name", *p.Name); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			fields["name"] = name
		}
	}
	if p.Surname != nil {
		if surname, err := alphabetic("surname", *p.Surname); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			fields["surname"] = surname
		}
	}
	if p.Email != nil {
		if email, err := Email(*p.Email); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			fields["email"] = email
		}
	}
	if errs != nil {
		return nil, errs
	}
	return fields, nil
}

// Registration validates a new account before it is hashed and stored.
func Registration(in domain.Registration) (domain.Registration, error) {
	var errs error
	out := in
	var err error
	if out.Name, err = alphabetic("name", in.Name); err != nil {
		errs = multierr.Append(errs, err)
	}
	if out.Surname, err = alphabetic("surname", in.Surname); err != nil {
		errs = multierr.Append(errs, err)
	}
	if out.Email, err = Email(in.Email); err != nil {
		errs = multierr.Append(errs, err)
	}
	// bcrypt only looks at the first 72 bytes and refuses longer input
	if err := v.Var([]byte(in.Password), "min=1,max=72"); err != nil {
		errs = multierr.Append(errs, &domain.Error{
			Kind: domain.KindValidation, Code: domain.ErrInvalidInput.Code,
			Field: "password", Msg: "password must be 1 to 72 bytes",
		})
	}
	if errs != nil {
		return domain.Registration{}, errs
	}
	return out, nil
}

// Email trims s and checks it as local@domain with a dotted domain, at most
// 255 characters.
func Email(s string) (string, error) {
	s = strings.TrimSpace(s)
	if err := v.Var(s, "required,email,max=255"); err != nil {
		return "", domain.ErrMalformedEmail
	}
	return s, nil
}

func alphabetic(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if err := v.Var(s, "required,alpha,max=64"); err != nil {
		return "", domain.NonAlphabetic(field)
	}
	return s, nil
}
