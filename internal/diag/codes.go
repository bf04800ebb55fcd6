package diag

import "fmt"

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Загрузка модулей
	LoadInfo          Code = 1000
	LoadBadMagic      Code = 1001
	LoadBadSchema     Code = 1002
	LoadDecodeFailure Code = 1003

	// Структурная валидация IR
	IRInvalidModule     Code = 2000
	IRNoEntryBlock      Code = 2001
	IRBadBlockTarget    Code = 2002
	IRMissingTerminator Code = 2003
	IRBadValueRef       Code = 2004
	IRBadTypeRef        Code = 2005
	IRBadDomainRef      Code = 2006
	IRBadParamConv      Code = 2007

	// Изоляционный анализ (findings)
	IsoInfo                  Code = 4000
	IsoUseAfterSend          Code = 4001
	IsoSendNonSendable       Code = 4002
	IsoInoutNotDisconnected  Code = 4003
	IsoInoutNotReinitialized Code = 4004
	IsoUnknownPattern        Code = 4005

	// Внутренние ошибки
	InternalError Code = 9001
)

func (c Code) String() string {
	return fmt.Sprintf("SC%04d", uint16(c))
}
