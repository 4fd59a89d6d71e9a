package entity

// CommentMessage — единица доставки очереди модерации. Сообщение ссылается на
// комментарий только по ID: актуальное состояние всегда перечитывается из базы
// при обработке, поэтому повторная или внеочередная доставка безопасна.
type CommentMessage struct {
	CommentID int               `msgpack:"comment_id"`
	Context   map[string]string `msgpack:"context"`
}
