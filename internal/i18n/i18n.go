// Package i18n localizes API error messages from the Accept-Language header.
// English messages double as catalog keys; other languages register
// translations against them.
package i18n

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/weiawesome/foodgram/pkg/log"
)

const langKey = "lang"

// Message keys.
const (
	MsgInternal          = "internal server error"
	MsgUnauthorized      = "unauthorized"
	MsgInvalidBody       = "invalid request body"
	MsgInvalidID         = "invalid id"
	MsgValidation        = "validation failed"
	MsgInvalidImage      = "invalid image"
	MsgUnsupportedFormat = "unsupported format"
	MsgMissingGlyph      = "shopping list contains characters the font cannot render"

	MsgUserNotFound       = "user not found"
	MsgRecipeNotFound     = "recipe not found"
	MsgIngredientNotFound = "ingredient not found"
	MsgTagNotFound        = "tag not found"

	MsgAlreadyFavorited = "recipe already in favorites"
	MsgNotFavorited     = "recipe is not in favorites"
	MsgAlreadyInCart    = "recipe already in shopping cart"
	MsgNotInCart        = "recipe is not in shopping cart"

	MsgSelfSubscribe     = "cannot subscribe to yourself"
	MsgAlreadySubscribed = "already subscribed"
	MsgNotSubscribed     = "not subscribed"

	MsgNotAuthor = "only the author can modify this recipe"

	MsgEmailExists        = "email already exists"
	MsgUsernameExists     = "username already exists"
	MsgInvalidCredentials = "invalid credentials"
	MsgInvalidToken       = "invalid token"
	MsgWrongPassword      = "current password is incorrect"

	MsgTagExists        = "tag already exists"
	MsgIngredientExists = "ingredient already exists"
)

var russian = map[string]string{
	MsgInternal:          "Внутренняя ошибка сервера",
	MsgUnauthorized:      "Требуется авторизация",
	MsgInvalidBody:       "Некорректное тело запроса",
	MsgInvalidID:         "Некорректный идентификатор",
	MsgValidation:        "Ошибка валидации",
	MsgInvalidImage:      "Некорректное изображение",
	MsgUnsupportedFormat: "Неподдерживаемый формат",
	MsgMissingGlyph:      "Список покупок содержит символы, которых нет в шрифте",

	MsgUserNotFound:       "Пользователь не найден",
	MsgRecipeNotFound:     "Рецепт не найден",
	MsgIngredientNotFound: "Ингредиент не найден",
	MsgTagNotFound:        "Тег не найден",

	MsgAlreadyFavorited: "Рецепт уже в избранном",
	MsgNotFavorited:     "Рецепта нет в избранном",
	MsgAlreadyInCart:    "Рецепт уже в списке покупок",
	MsgNotInCart:        "Рецепта нет в списке покупок",

	MsgSelfSubscribe:     "Нельзя подписаться на самого себя",
	MsgAlreadySubscribed: "Вы уже подписаны на этого автора",
	MsgNotSubscribed:     "Вы не подписаны на этого автора",

	MsgNotAuthor: "Изменять рецепт может только автор",

	MsgEmailExists:        "Пользователь с таким email уже существует",
	MsgUsernameExists:     "Пользователь с таким именем уже существует",
	MsgInvalidCredentials: "Неверный email или пароль",
	MsgInvalidToken:       "Недействительный токен",
	MsgWrongPassword:      "Неверный текущий пароль",

	MsgTagExists:        "Такой тег уже существует",
	MsgIngredientExists: "Такой ингредиент уже существует",
}

var (
	supported = []language.Tag{language.English, language.Russian}
	matcher   = language.NewMatcher(supported)
	cat       = buildCatalog()
	printers  = map[language.Tag]*message.Printer{
		language.English: message.NewPrinter(language.English, message.Catalog(cat)),
		language.Russian: message.NewPrinter(language.Russian, message.Catalog(cat)),
	}
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range russian {
		if err := b.SetString(language.Russian, key, msg); err != nil {
			panic(err)
		}
	}
	return b
}

// Match picks a supported language for an Accept-Language header value.
func Match(acceptLanguage string) language.Tag {
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	return supported[idx]
}

// Middleware resolves the request language once and stores it in the context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := Match(c.GetHeader("Accept-Language"))
		c.Set(langKey, tag)
		c.Header("Content-Language", tag.String())

		ctx := c.Request.Context()
		l := log.Ctx(ctx).With().Str(log.FieldLanguage, tag.String()).Logger()
		c.Request = c.Request.WithContext(log.WithLogger(ctx, l))

		c.Next()
	}
}

// Lang returns the language chosen by Middleware, English if none.
func Lang(c *gin.Context) language.Tag {
	if v, ok := c.Get(langKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}

// T translates key into the request language.
func T(c *gin.Context, key string) string {
	return Translate(Lang(c), key)
}

// Translate returns the message for key in tag, falling back to the key.
func Translate(tag language.Tag, key string) string {
	p, ok := printers[tag]
	if !ok {
		return key
	}
	return p.Sprintf(key)
}
